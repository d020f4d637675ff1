// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Label is one of the six ordinal truthfulness classes.
type Label string

const (
	LabelTrue       Label = "true"
	LabelMostlyTrue Label = "mostly-true"
	LabelHalfTrue   Label = "half-true"
	LabelBarelyTrue Label = "barely-true"
	LabelFalse      Label = "false"
	LabelPantsFire  Label = "pants-fire"
)

// Counts holds a speaker's historical truthfulness counts. The field order
// is the order of the numeric feature block.
type Counts struct {
	BarelyTrue  int `json:"Barely_True_Counts" yaml:"barely_true"`
	False       int `json:"False_Counts" yaml:"false"`
	HalfTrue    int `json:"Half_True_Counts" yaml:"half_true"`
	MostlyTrue  int `json:"Mostly_True_Counts" yaml:"mostly_true"`
	PantsOnFire int `json:"Pants_on_Fire_Counts" yaml:"pants_on_fire"`
}

// Values returns the counts in feature order.
func (c Counts) Values() [5]float64 {
	return [5]float64{
		float64(c.BarelyTrue),
		float64(c.False),
		float64(c.HalfTrue),
		float64(c.MostlyTrue),
		float64(c.PantsOnFire),
	}
}

// NumericFeatures names the count columns, in feature order.
var NumericFeatures = []string{
	"Barely_True_Counts",
	"False_Counts",
	"Half_True_Counts",
	"Mostly_True_Counts",
	"Pants_on_Fire_Counts",
}

// Record is one statement instance. Label is empty at inference time.
type Record struct {
	// ID is the dataset identifier of the statement (e.g. "2635.json").
	ID string `json:"ID,omitempty" yaml:"id,omitempty"`

	// Label is the truthfulness class. Empty when unknown.
	Label Label `json:"Label,omitempty" yaml:"label,omitempty"`

	// Statement is the claim text.
	Statement string `json:"Statement" yaml:"statement"`

	// Subject is a comma-separated list of topic tags.
	Subject string `json:"Subject" yaml:"subject"`

	// Speaker is the slug of the person who made the statement.
	Speaker string `json:"Speaker" yaml:"speaker"`

	SpeakerJobTitle string `json:"Speaker_Job_Title,omitempty" yaml:"speaker_job_title,omitempty"`
	StateInfo       string `json:"State_Info,omitempty" yaml:"state_info,omitempty"`

	// PartyAffiliation is the speaker's party (e.g. "republican").
	PartyAffiliation string `json:"Party_Affiliation" yaml:"party_affiliation"`

	Counts `yaml:",inline"`

	// Context describes where the statement was made. May be empty.
	Context string `json:"Context,omitempty" yaml:"context,omitempty"`
}
