//go:build !linux

package identity

// RouteResolver has no route table access off Linux.
func RouteResolver() Resolver {
	return nil
}
