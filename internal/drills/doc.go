// Package drills builds and grades the short practice exercises: grammar
// micro-drills, verb precision choices, vocabulary cloze prompts and the
// active production check. Grading is pure; the session applies the side
// effects of a wrong answer.
package drills
