package classify

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFailSafe_Resolve(t *testing.T) {
	fs := DefaultFailSafe
	assert.Equal(t, Fraudulent, fs.Label)

	assert.Equal(t, Legit, fs.Resolve(&Result{Prediction: Legit}, nil))
	assert.Equal(t, Fraudulent, fs.Resolve(nil, errors.New("boom")))
	assert.Equal(t, Fraudulent, fs.Resolve(nil, nil))

	lenient, err := NewFailSafe(Legit)
	require.NoError(t, err)
	assert.Equal(t, Legit, lenient.Resolve(&Result{Prediction: Fraudulent}, errors.New("boom")))
	assert.Equal(t, Fraudulent, lenient.Resolve(&Result{Prediction: Fraudulent}, nil))
}

func TestNewFailSafe_Invalid(t *testing.T) {
	_, err := NewFailSafe(2)
	assert.Error(t, err)
	_, err = NewFailSafe(-1)
	assert.Error(t, err)
}
