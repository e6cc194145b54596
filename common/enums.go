// Package common holds enums shared between configuration and commands.
package common

//go:generate go tool go-enum --marshal --names

// Format of class map produced by build.
// ENUM(yaml, json)
type MapFormat int

func (f MapFormat) Ext() string {
	switch f {
	case MapFormatJson:
		return ".json"
	case MapFormatYaml:
		return ".yaml"
	default:
		// this should never happen
		panic("unsupported map format requested")
	}
}
