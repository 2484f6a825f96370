package model

// TestResult is one judged test case as reported by the execution service.
type TestResult struct {
	Input          string `json:"input"`
	ExpectedOutput string `json:"expected_output"`
	UserOutput     string `json:"user_output"`
	TestPassed     bool   `json:"test_passed"`
	Error          string `json:"error,omitempty"`
}

// AllPassed is true only for a non-empty slice where every result passed.
func AllPassed(results []TestResult) bool {
	if len(results) == 0 {
		return false
	}
	for _, r := range results {
		if !r.TestPassed {
			return false
		}
	}
	return true
}
