package validator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type payee struct {
	VPA string  `validate:"required,upi_vpa"`
	Lat float64 `validate:"latitude"`
}

func TestValidate_UPIVPA(t *testing.T) {
	assert.NoError(t, Validate(payee{VPA: "evsparkhub@okaxis", Lat: 28.6}))
	assert.Error(t, Validate(payee{VPA: "not-a-vpa", Lat: 28.6}))
	assert.Error(t, Validate(payee{VPA: "a@1", Lat: 28.6}))
	assert.Error(t, Validate(payee{VPA: "evsparkhub@okaxis", Lat: 91}))
}

type coins struct {
	Amount int64  `validate:"required,gt=0,max=1000000"`
	Note   string `validate:"omitempty,max=5"`
}

func TestFailedTag(t *testing.T) {
	tag, ok := FailedTag(Validate(coins{Amount: 2_000_000}), "Amount")
	assert.True(t, ok)
	assert.Equal(t, "max", tag)

	tag, ok = FailedTag(Validate(coins{Amount: 0}), "Amount")
	assert.True(t, ok)
	assert.Equal(t, "required", tag)

	err := Validate(coins{Amount: 10, Note: "too long"})
	_, ok = FailedTag(err, "Amount")
	assert.False(t, ok)
	tag, ok = FailedTag(err, "Note")
	assert.True(t, ok)
	assert.Equal(t, "max", tag)

	_, ok = FailedTag(errors.New("boom"), "Amount")
	assert.False(t, ok)
	_, ok = FailedTag(nil, "Amount")
	assert.False(t, ok)
}
