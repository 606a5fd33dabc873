// Package curves maps curve identifiers to [group.Group] implementations.
package curves

import (
	"fmt"
	"sort"
	"strings"

	"github.com/f3rmion/secagg/bjj"
	"github.com/f3rmion/secagg/group"
	"github.com/f3rmion/secagg/secp256k1"
	"github.com/f3rmion/secagg/weierstrass"
)

var registry = map[string]func() (group.Group, error){
	secp256k1.Name: func() (group.Group, error) { return secp256k1.New(), nil },
	bjj.Name:       func() (group.Group, error) { return &bjj.BJJ{}, nil },
	weierstrass.Toy101.Name: func() (group.Group, error) {
		return weierstrass.New(weierstrass.Toy101)
	},
	weierstrass.Toy10007.Name: func() (group.Group, error) {
		return weierstrass.New(weierstrass.Toy10007)
	},
	weierstrass.Toy97C2.Name: func() (group.Group, error) {
		return weierstrass.New(weierstrass.Toy97C2)
	},
}

// FromName returns the group registered under name (case-insensitive).
func FromName(name string) (group.Group, error) {
	ctor, ok := registry[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unsupported curve: %s", name)
	}
	return ctor()
}

// Supported lists the identifiers understood by FromName.
func Supported() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
