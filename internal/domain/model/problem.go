package model

import (
	"github.com/gosimple/slug"
)

// Problem is a statically defined exercise. The hidden suite lives with the
// judge; only the public sample is known here.
type Problem struct {
	Title          string `json:"title"`
	Slug           string `json:"slug"`
	Description    string `json:"description"`
	InputFormat    string `json:"input_format"`
	SampleInput    string `json:"sample_input"`
	ExpectedOutput string `json:"expected_output"`
}

func newProblem(title, description, inputFormat, sampleInput, expectedOutput string) Problem {
	return Problem{
		Title:          title,
		Slug:           slug.Make(title),
		Description:    description,
		InputFormat:    inputFormat,
		SampleInput:    sampleInput,
		ExpectedOutput: expectedOutput,
	}
}

var SumOfTwoNumbers = newProblem(
	"Sum of Two Numbers",
	"Write a program that takes two integers as input and returns their sum.",
	"Two space-separated integers",
	"1 2",
	"3",
)

// Catalog returns every built-in problem.
func Catalog() []Problem {
	return []Problem{SumOfTwoNumbers}
}

// DefaultProblem is the one the editor opens with.
func DefaultProblem() Problem {
	return SumOfTwoNumbers
}
