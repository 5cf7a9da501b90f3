package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Class
	}{
		{"submit verb", "Submit with the annual return", Hard},
		{"due date", "Due by 31 March", Hard},
		{"lodgment", "Lodgment through the e-filing portal", Hard},
		{"statutory", "Statutory documentation requirement", Hard},
		{"within months after year-end", "within 6 months after year-end", Hard},
		{"prepare only", "Prepare contemporaneously", Soft},
		{"upon request", "Provide upon request", Soft},
		{"within days of audit", "within 30 days of audit notice", Soft},
		{"on demand", "Available on demand", Soft},
		{"neither", "See local guidance", Unclassified},
		{"empty", "", Unclassified},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.text))
		})
	}
}

func TestClassifyTieGoesHard(t *testing.T) {
	// "prepare" is a SOFT marker, "submit" a HARD one.
	assert.Equal(t, Hard, Classify("Prepare and submit by year-end"))
	assert.Equal(t, Hard, Classify("Maintain and file with the return"))
	// "keep on file" carries the HARD marker "file" inside a SOFT phrase.
	assert.Equal(t, Hard, Classify("Keep on file locally"))
}

func TestClassifyDeterministic(t *testing.T) {
	text := "Prepare and submit within 60 days"
	first := Classify(text)
	for i := 0; i < 50; i++ {
		assert.Equal(t, first, Classify(text))
	}
}

func TestOr(t *testing.T) {
	assert.Equal(t, Hard, Unclassified.Or(Hard))
	assert.Equal(t, Soft, Unclassified.Or(Soft))
	assert.Equal(t, Soft, Soft.Or(Hard), "existing class is never overridden")
}
