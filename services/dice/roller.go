package dice

import (
	"errors"
	"fmt"
	"math/rand"
	"regexp"
	"strconv"
	"strings"
)

// Roll outcomes are decided here, server-side, before any animation
// runs. The physics proxy in this package only ever receives a result
// that is already final.

var (
	ErrInvalidExpression = errors.New("invalid dice expression")

	exprPattern = regexp.MustCompile(`^(\d*)d(\d+)([+-]\d+)?$`)
)

const (
	maxDicePerRoll = 20
	maxSides       = 1000
)

// Spec is a parsed dice expression: Count dice of Sides faces plus a
// flat Modifier.
type Spec struct {
	Count    int
	Sides    int
	Modifier int
}

// Result holds the outcome of one evaluated expression.
type Result struct {
	Expression string `json:"expression"`
	Values     []int  `json:"values"`
	Modifier   int    `json:"modifier"`
	Total      int    `json:"total"`
}

// ParseExpression parses "NdS", "dS", "NdS+K" or "NdS-K" (case
// insensitive, surrounding whitespace ignored).
func ParseExpression(expr string) (Spec, error) {
	m := exprPattern.FindStringSubmatch(strings.ToLower(strings.TrimSpace(expr)))
	if m == nil {
		return Spec{}, fmt.Errorf("%w: %q", ErrInvalidExpression, expr)
	}

	spec := Spec{Count: 1}
	if m[1] != "" {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return Spec{}, fmt.Errorf("%w: %q", ErrInvalidExpression, expr)
		}
		spec.Count = n
	}
	sides, err := strconv.Atoi(m[2])
	if err != nil {
		return Spec{}, fmt.Errorf("%w: %q", ErrInvalidExpression, expr)
	}
	spec.Sides = sides
	if m[3] != "" {
		mod, err := strconv.Atoi(m[3])
		if err != nil {
			return Spec{}, fmt.Errorf("%w: %q", ErrInvalidExpression, expr)
		}
		spec.Modifier = mod
	}

	if spec.Count < 1 || spec.Count > maxDicePerRoll {
		return Spec{}, fmt.Errorf("%w: count out of range in %q", ErrInvalidExpression, expr)
	}
	if spec.Sides < 2 || spec.Sides > maxSides {
		return Spec{}, fmt.Errorf("%w: sides out of range in %q", ErrInvalidExpression, expr)
	}
	return spec, nil
}

// Roll evaluates a dice expression with the shared random source.
func Roll(expr string) (Result, error) {
	spec, err := ParseExpression(expr)
	if err != nil {
		return Result{}, err
	}
	return rollSpec(expr, spec, nil), nil
}

// RollWithRng evaluates a dice expression using a caller-provided
// source. Deterministic for a fixed seed; used by tests and by anything
// that needs a reproducible roll.
func RollWithRng(rng *rand.Rand, expr string) (Result, error) {
	spec, err := ParseExpression(expr)
	if err != nil {
		return Result{}, err
	}
	return rollSpec(expr, spec, rng), nil
}

func rollSpec(expr string, spec Spec, rng *rand.Rand) Result {
	values := make([]int, spec.Count)
	total := spec.Modifier
	for i := 0; i < spec.Count; i++ {
		values[i] = rollDie(rng, spec.Sides)
		total += values[i]
	}
	return Result{
		Expression: expr,
		Values:     values,
		Modifier:   spec.Modifier,
		Total:      total,
	}
}

// rollDie rolls a single die with the provided number of sides.
func rollDie(rng *rand.Rand, sides int) int {
	if rng == nil {
		return rand.Intn(sides) + 1
	}
	return rng.Intn(sides) + 1
}
