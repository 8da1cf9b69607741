package validator

import (
	"mercator-hq/callisto/pkg/grammar/ast"
	grammarErrors "mercator-hq/callisto/pkg/grammar/errors"
)

// Warning is a non-fatal finding for grammar-authoring review. Warnings
// never fail validation; they flag constructs that are legal but deserve a
// second look (e.g. two sibling extract parts capturing the same field,
// where the engine's last-writer-wins merge decides the value).
type Warning struct {
	Message  string
	Location ast.Location
}

// Validator is the main validator that orchestrates all validation passes.
// It runs structural and semantic validation in sequence.
type Validator struct {
	structural *StructuralValidator
	semantic   *SemanticValidator
}

// NewValidator creates a new validator with all validation passes.
func NewValidator() *Validator {
	return &Validator{
		structural: NewStructuralValidator(),
		semantic:   NewSemanticValidator(),
	}
}

// Validate runs all validation passes on a grammar.
// It accumulates errors from all passes and returns them together.
func (v *Validator) Validate(grammar *ast.Grammar) error {
	errors := grammarErrors.NewErrorList()

	if err := v.structural.Validate(grammar); err != nil {
		if errList, ok := err.(*grammarErrors.ErrorList); ok {
			errors.Errors = append(errors.Errors, errList.Errors...)
		}
	}

	// Run semantic validation only if structural validation passed.
	// This prevents cascading errors from broken references.
	if !errors.HasErrorType(grammarErrors.ErrorTypeStructural) {
		if err := v.semantic.Validate(grammar); err != nil {
			if errList, ok := err.(*grammarErrors.ErrorList); ok {
				errors.Errors = append(errors.Errors, errList.Errors...)
			}
		}
	}

	return errors.ToError()
}

// Warnings returns the non-fatal findings from the most recent Validate
// call.
func (v *Validator) Warnings() []Warning {
	return v.semantic.Warnings()
}

// ValidateStructural runs only structural validation.
func (v *Validator) ValidateStructural(grammar *ast.Grammar) error {
	return v.structural.Validate(grammar)
}

// ValidateSemantic runs only semantic validation.
func (v *Validator) ValidateSemantic(grammar *ast.Grammar) error {
	return v.semantic.Validate(grammar)
}
