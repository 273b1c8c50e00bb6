package main

import (
	"errors"
	"fmt"
	"sync/atomic"
	"testing"

	converter "github.com/medal-daq/converter_go/pkg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertAllKeepsInputOrder(t *testing.T) {
	inputs := make([]string, 20)
	for i := range inputs {
		inputs[i] = fmt.Sprintf("in-%02d.bin", i)
	}
	var calls atomic.Int32
	convert := func(input string) (converter.Result, error) {
		calls.Add(1)
		if input == "in-07.bin" {
			return converter.Result{InputPath: input}, errors.New("broken")
		}
		return converter.Result{InputPath: input, Samples: len(input)}, nil
	}

	results := convertAll(inputs, 4, convert)
	require.Len(t, results, len(inputs))
	assert.Equal(t, int32(len(inputs)), calls.Load())
	for i, r := range results {
		assert.Equal(t, inputs[i], r.Input)
		assert.Equal(t, inputs[i], r.Result.InputPath)
		if i == 7 {
			assert.EqualError(t, r.Err, "broken")
		} else {
			assert.NoError(t, r.Err)
		}
	}
}

func TestConvertAllRecoversPanics(t *testing.T) {
	convert := func(input string) (converter.Result, error) {
		if input == "bad.bin" {
			panic("index out of range")
		}
		return converter.Result{}, nil
	}

	results := convertAll([]string{"good.bin", "bad.bin", "good.bin"}, 0, convert)
	require.Len(t, results, 3)
	assert.NoError(t, results[0].Err)
	require.Error(t, results[1].Err)
	assert.Contains(t, results[1].Err.Error(), "recovered from panic on bad.bin")
	assert.NoError(t, results[2].Err)
}
