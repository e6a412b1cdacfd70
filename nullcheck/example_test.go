package nullcheck_test

import (
	"context"
	"errors"
	"fmt"

	"github.com/jonwraymond/callwatch/callsite"
	"github.com/jonwraymond/callwatch/nullcheck"
)

func ExampleValidator_Wrap() {
	sig := callsite.NewMethod("shop.Cart", "Add", callsite.Void, "int", "string")
	v := nullcheck.NewValidator(nullcheck.StaticRules{sig: nullcheck.Params(1)})

	add := v.Wrap(sig, func(context.Context, []any) (any, error) {
		return nil, nil
	})

	_, err := add(context.Background(), []any{1, nil})
	fmt.Println(err)
	fmt.Println(errors.Is(err, nullcheck.ErrNullArgument))
	// Output:
	// Null string argument on position 2 of method void shop.Cart.Add(int, string)
	// true
}
