package helpers

import "github.com/gookit/validate"

// Errors collects rejection reasons across validation passes; the first
// entry is what gets audit logged.
type Errors struct {
	Errors []string `json:"errors"`
}

func (e Errors) Size() int {
	return len(e.Errors)
}

// Vaildate runs gookit struct validation on payload and appends every
// failure message to err_src. Custom validator methods are resolved against
// payload's own type, so nested structs must be passed in separately.
func Vaildate(payload interface{}, err_src *Errors) {
	v := validate.Struct(payload)
	if !v.Validate() {
		for _, errs := range v.Errors.All() {
			for _, err := range errs {
				err_src.Errors = append(err_src.Errors, err)
			}
		}
	}
}
