package routes

import "github.com/go-barry/bodensee/core"

func Bodensee(core.Params) (any, error) {
	return core.Map{
		{Key: "becken", Value: "Bodensee"},
		{Key: "temp", Value: 33.3},
	}, nil
}
