package config

import (
	"fmt"
	"net/netip"
	"reflect"
	"strings"

	"github.com/go-viper/mapstructure/v2"
)

var netipAddrType = reflect.TypeOf(netip.Addr{})

// decodeHook turns the string forms found in YAML and env vars into typed
// fields: "1s" durations, "a,b" lists and "10.0.0.1" addresses.
func decodeHook() mapstructure.DecodeHookFunc {
	return mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
		stringToNetIPAddrHookFunc(),
	)
}

func stringToNetIPAddrHookFunc() mapstructure.DecodeHookFuncType {
	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if from.Kind() != reflect.String || to != netipAddrType {
			return data, nil
		}
		s := strings.TrimSpace(data.(string))
		if s == "" {
			return netip.Addr{}, nil
		}
		addr, err := netip.ParseAddr(s)
		if err != nil {
			return nil, fmt.Errorf("invalid address %q: %w", s, err)
		}
		return addr.Unmap(), nil
	}
}
