package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestStatus(t *testing.T) {
	assert.Equal(t, StatusSuccess, Status(nil))
	assert.Equal(t, StatusFailure, Status(errors.New("boom")))
}

func TestAddressValidations_Increments(t *testing.T) {
	before := testutil.ToFloat64(AddressValidations.WithLabelValues("VALID"))
	AddressValidations.WithLabelValues("VALID").Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(AddressValidations.WithLabelValues("VALID")))
}
