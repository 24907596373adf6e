package routes

import (
	"fmt"

	"github.com/go-barry/bodensee/core"
)

// Hello greets the name taken from the path. The name is not escaped.
func Hello(params core.Params) (any, error) {
	return fmt.Sprintf("Nice to meet you, %s!", params.Get("name")), nil
}
