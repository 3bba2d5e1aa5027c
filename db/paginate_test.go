package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageNormalize(t *testing.T) {
	testCases := []struct {
		name string
		in   Page
		want Page
	}{
		{"defaults", Page{}, Page{Number: 1, Size: 10}},
		{"negative page", Page{Number: -3, Size: 5}, Page{Number: 1, Size: 5}},
		{"too large", Page{Number: 2, Size: 500}, Page{Number: 2, Size: 10}},
		{"kept", Page{Number: 4, Size: 25}, Page{Number: 4, Size: 25}},
	}
	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.in.normalize(10))
		})
	}
}

func TestNumPages(t *testing.T) {
	assert.Equal(t, 1, numPages(0, 10))
	assert.Equal(t, 1, numPages(10, 10))
	assert.Equal(t, 2, numPages(11, 10))
	assert.Equal(t, 3, numPages(11, 5))
}
