package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateEmail(t *testing.T) {
	assert.NoError(t, ValidateEmail("john@example.com"))
	assert.NoError(t, ValidateEmail("user.name+tag@sub.example.org"))

	assert.Error(t, ValidateEmail(""))
	assert.Error(t, ValidateEmail("no-at-sign"))
	assert.Error(t, ValidateEmail("two@@example.com"))
	assert.Error(t, ValidateEmail("user@localhost"))
}

func TestValidateUsername(t *testing.T) {
	assert.NoError(t, ValidateUsername("john_dev"))
	assert.NoError(t, ValidateUsername("abc"))

	assert.Error(t, ValidateUsername(""))
	assert.Error(t, ValidateUsername("ab"))
	assert.Error(t, ValidateUsername("1john"))
	assert.Error(t, ValidateUsername("john dev"))
	assert.Error(t, ValidateUsername("john-dev"))
}

func TestValidatePassword(t *testing.T) {
	assert.NoError(t, ValidatePassword("Password123"))

	assert.Error(t, ValidatePassword("short1A"))
	assert.Error(t, ValidatePassword("alllowercase1"))
	assert.Error(t, ValidatePassword("ALLUPPERCASE1"))
	assert.Error(t, ValidatePassword("NoDigitsHere"))
}

func TestValidatePositiveAmount(t *testing.T) {
	assert.NoError(t, ValidatePositiveAmount("price", 0.01))
	assert.NoError(t, ValidatePositiveAmount("price", MaxPrice))

	assert.Error(t, ValidatePositiveAmount("price", 0))
	assert.Error(t, ValidatePositiveAmount("price", -5))
	assert.Error(t, ValidatePositiveAmount("price", MaxPrice+1))
}

func TestValidateDeliveryDays(t *testing.T) {
	assert.NoError(t, ValidateDeliveryDays(1))
	assert.NoError(t, ValidateDeliveryDays(MaxDeliveryDays))

	assert.Error(t, ValidateDeliveryDays(0))
	assert.Error(t, ValidateDeliveryDays(-3))
	assert.Error(t, ValidateDeliveryDays(MaxDeliveryDays+1))
}

func TestValidateLength_Runes(t *testing.T) {
	// Длина считается в рунах, кириллица не штрафуется за байты.
	assert.NoError(t, ValidateLength("title", "Длинный заголовок", MinTitleLength, MaxTitleLength))
	assert.Error(t, ValidateLength("title", "аб", MinTitleLength, MaxTitleLength))
}
