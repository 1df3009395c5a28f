package regress

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadValues(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name   string
		script []string
		values []ValuePair
	}){
		{"vals", []string{
			"vals = [(0x55, 0xaa), (0xff, 0xff)]",
		}, []ValuePair{{0x55, 0xaa}, {0xff, 0xff}}},
		{"extra", []string{
			"extra = [(0x7f, 0xff)]",
		}, append(append([]ValuePair{}, AndiValues...), ValuePair{0x7f, 0xff})},
		{"both", []string{
			"vals = [(1, 1)]",
			"extra = ((2, 2),)",
		}, []ValuePair{{1, 1}, {2, 2}}},
		{"default", []string{
			"vals = ANDI_VALUES",
		}, AndiValues},
		{"comprehension", []string{
			"vals = [(1 << n, 0xff) for n in range(8)]",
		}, []ValuePair{{0x01, 0xff}, {0x02, 0xff}, {0x04, 0xff}, {0x08, 0xff},
			{0x10, 0xff}, {0x20, 0xff}, {0x40, 0xff}, {0x80, 0xff}}},
		{"lists", []string{
			"vals = ANDI_VALUES[:2] + [[0x3c, 0xc3]]",
		}, []ValuePair{{0x00, 0x00}, {0xff, 0x00}, {0x3c, 0xc3}}},
	}

	for _, entry := range table {
		values, err := LoadValues(entry.name+".star", strings.Join(entry.script, "\n"))
		assert.NoError(err, entry.name)
		assert.Equal(entry.values, values, entry.name)
	}
}

func TestLoadValues_Errors(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name   string
		script string
		err    error
	}){
		{"missing", "x = 1", ErrConfigMissing},
		{"empty", "vals = []", ErrConfigMissing},
		{"scalar", "vals = 3", ErrConfigType},
		{"triple", "vals = [(1, 2, 3)]", ErrConfigType},
		{"string", "vals = [\"ab\"]", ErrConfigType},
		{"float", "vals = [(1.0, 2)]", ErrConfigType},
		{"range", "vals = [(0, 256)]", ErrConfigRange},
		{"negative", "extra = [(-1, 0)]", ErrConfigRange},
	}

	for _, entry := range table {
		_, err := LoadValues(entry.name+".star", entry.script)
		assert.ErrorIs(err, entry.err, entry.name)

		var cfgerr *ErrConfig
		if assert.True(errors.As(err, &cfgerr), entry.name) {
			assert.Equal(entry.name+".star", cfgerr.Filename)
		}
	}

	_, err := LoadValues("syntax.star", "vals = [(1, 2)")
	assert.Error(err)
	_, err = LoadValues("runtime.star", "vals = [(1, 2)] + 3")
	assert.Error(err)
}

func TestLoadValues_File(t *testing.T) {
	assert := assert.New(t)

	filename := filepath.Join(t.TempDir(), "values.star")
	err := os.WriteFile(filename, []byte("vals = [(0xaa, 0x55)]\n"), 0o644)
	assert.NoError(err)

	values, err := LoadValues(filename, nil)
	assert.NoError(err)
	assert.Equal([]ValuePair{{0xaa, 0x55}}, values)

	_, err = LoadValues(filepath.Join(t.TempDir(), "missing.star"), nil)
	assert.Error(err)
}
