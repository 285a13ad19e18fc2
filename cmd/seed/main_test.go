package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStudents(t *testing.T) {
	accounts, err := parseStudents("CH21001:Asha R:500, CH21002:Vikram:0.50,")
	require.NoError(t, err)
	require.Len(t, accounts, 2)
	assert.Equal(t, "CH21001", accounts[0].student.RegNo)
	assert.Equal(t, "Asha R", accounts[0].student.Name)
	assert.Equal(t, "500", accounts[0].opening.String())
	assert.Equal(t, "0.5", accounts[1].opening.String())

	_, err = parseStudents("CH21001:Asha")
	assert.Error(t, err)

	_, err = parseStudents("CH21001:Asha:lots")
	assert.Error(t, err)
}
