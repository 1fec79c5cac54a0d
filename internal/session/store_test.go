package session

import (
	"sync"
	"testing"

	"avtoclub/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestStore_GetSetDelete(t *testing.T) {
	store := NewStore()

	assert.Nil(t, store.Get(123))

	sess := domain.NewSession(123, 456, domain.FlowRegistration, domain.StepFirstName)
	store.Set(123, sess)

	got := store.Get(123)
	assert.NotNil(t, got)
	assert.Equal(t, domain.FlowRegistration, got.Flow)
	assert.Equal(t, domain.StepFirstName, got.Step)

	store.Delete(123)
	assert.Nil(t, store.Get(123))

	// Deleting an absent session is a no-op
	store.Delete(123)
}

func TestStore_NewFlowReplacesActive(t *testing.T) {
	store := NewStore()

	reg := domain.NewSession(123, 456, domain.FlowRegistration, domain.StepCity)
	reg.Registration.FirstName = "Иван"
	store.Set(123, reg)

	// Starting vehicle-add replaces registration wholesale
	store.Set(123, domain.NewSession(123, 456, domain.FlowVehicleAdd, domain.StepBrand))

	got := store.Get(123)
	assert.Equal(t, domain.FlowVehicleAdd, got.Flow)
	assert.Equal(t, domain.StepBrand, got.Step)
	assert.Empty(t, got.Registration.FirstName, "no residual fields from the replaced flow")
}

func TestStore_UsersIsolated(t *testing.T) {
	store := NewStore()

	store.Set(1, domain.NewSession(1, 1, domain.FlowRegistration, domain.StepFirstName))
	store.Set(2, domain.NewSession(2, 2, domain.FlowSearch, domain.StepSearchPlate))

	assert.Equal(t, domain.FlowRegistration, store.Get(1).Flow)
	assert.Equal(t, domain.FlowSearch, store.Get(2).Flow)

	store.Delete(1)
	assert.Nil(t, store.Get(1))
	assert.NotNil(t, store.Get(2))
}

func TestStore_ConcurrentAccess(t *testing.T) {
	store := NewStore()

	var wg sync.WaitGroup
	for i := int64(0); i < 50; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			store.Set(id, domain.NewSession(id, id, domain.FlowSearch, domain.StepSearchPlate))
			_ = store.Get(id)
			store.Delete(id)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 0, store.Len())
}
