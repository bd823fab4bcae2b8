package names

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCamelCase(t *testing.T) {
	assert.Equal(t, "$YielderSimple", CamelCase("$", "yielder", "simple"))
	assert.Equal(t, "$YielderFibWhile2", CamelCase("$", "yielder", "fib", "while", "2"))
	assert.Equal(t, "$Yielder", CamelCase("$", "yielder", ""))
}

func TestCapitalize(t *testing.T) {
	assert.Equal(t, "Name", Capitalize("name"))
	assert.Equal(t, "", Capitalize(""))
	assert.Equal(t, "name", Decapitalize("Name"))
	assert.Equal(t, "uRL", Decapitalize("URL"))
}

func TestConstantCase(t *testing.T) {
	testCases := map[string]string{
		"name":      "NAME",
		"firstName": "FIRST_NAME",
		"urlPath":   "URL_PATH",
		"value2Max": "VALUE2_MAX",
		"URL":       "URL",
	}
	for in, expected := range testCases {
		assert.Equal(t, expected, ConstantCase(in), in)
	}
}

func TestSingular(t *testing.T) {
	testCases := map[string]string{
		"items":     "item",
		"entries":   "entry",
		"addresses": "address",
		"boxes":     "box",
		"matches":   "match",
		"class":     "class",
		"data":      "data",
	}
	for in, expected := range testCases {
		assert.Equal(t, expected, Singular(in), in)
	}
}
