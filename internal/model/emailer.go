package model

// AI emailer collections.
const (
	CollectionEmailDesigns   = "email_designs"
	CollectionEmailTemplates = "email_templates"
)

// CustomizationField describes one placeholder a design exposes.
type CustomizationField struct {
	Label   string `json:"label"`
	Type    string `json:"type" validate:"omitempty,oneof=text color url textarea"`
	Default string `json:"default"`
}

// EmailDesign is a Handlebars HTML layout plus its customization fields.
type EmailDesign struct {
	Base
	Name          string                        `json:"name" validate:"notblank"`
	HTML          string                        `json:"html" validate:"notblank"`
	Customization map[string]CustomizationField `json:"customization" validate:"dive"`
}

func (d EmailDesign) RecordKey() string   { return d.Name }
func (d EmailDesign) RecordTitle() string { return d.Name }

// Defaults returns the design's default placeholder values.
func (d EmailDesign) Defaults() map[string]string {
	out := make(map[string]string, len(d.Customization))
	for k, f := range d.Customization {
		out[k] = f.Default
	}
	return out
}

// EmailTemplate is a saved set of values for a design.
type EmailTemplate struct {
	Base
	Name     string            `json:"name" validate:"notblank"`
	DesignID string            `json:"design_id" validate:"notblank"`
	Subject  string            `json:"subject"`
	Values   map[string]string `json:"values"`
}

func (t EmailTemplate) RecordKey() string   { return "" }
func (t EmailTemplate) RecordTitle() string { return t.Name }
