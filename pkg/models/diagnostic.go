package models

// DiagnosticIssue is read-only reference data for the gap finder
type DiagnosticIssue struct {
	Area    string `json:"area" yaml:"area"`
	Pattern string `json:"pattern" yaml:"pattern"`
	Impact  string `json:"impact" yaml:"impact"`
	Example string `json:"example" yaml:"example"`
	Fix     string `json:"fix" yaml:"fix"`
}
