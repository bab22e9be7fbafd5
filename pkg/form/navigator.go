package form

import "context"

// Navigator performs the redirect requested by an endpoint.
type Navigator interface {
	Navigate(ctx context.Context, target string) error
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(ctx context.Context, target string) error

func (f NavigatorFunc) Navigate(ctx context.Context, target string) error {
	return f(ctx, target)
}

type noopNavigator struct{}

func (noopNavigator) Navigate(context.Context, string) error { return nil }
