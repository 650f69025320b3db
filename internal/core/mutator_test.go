package core

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validForm() RecordForm {
	return RecordForm{
		CustomerName: "Jane Doe",
		Email:        "jane.doe@email.com",
		Project:      "Landing Page",
		Address:      "Main Street Boston",
		Status:       "approved",
	}
}

func TestSubmitAddsRecordAtFront(t *testing.T) {
	l, notifier := loadedList(t, 50)

	rec, err := l.Submit(validForm())
	require.NoError(t, err)

	dataset := l.Dataset()
	require.Len(t, dataset, 51)
	assert.Equal(t, rec, dataset[0])
	assert.Equal(t, "#CM9851", rec.ID)
	assert.Equal(t, "Just now", rec.DisplayDate)
	assert.Equal(t, StatusApproved, rec.Status)
	assert.Equal(t, PlaceholderAvatar, rec.AvatarRef)
	assert.Equal(t, fixedNow, rec.CreatedAt)
	assert.Equal(t, []string{SubmitSuccessMessage}, notifier.successes)
	assert.Empty(t, notifier.errors)
}

func TestSubmitDefaultsStatusAndTrims(t *testing.T) {
	l, _ := loadedList(t, 3)
	form := validForm()
	form.Status = ""
	form.CustomerName = "  Jane Doe  "

	rec, err := l.Submit(form)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, rec.Status)
	assert.Equal(t, "Jane Doe", rec.CustomerName)
	assert.Equal(t, "#CM9804", rec.ID)
}

func TestSubmitMissingFields(t *testing.T) {
	blank := []func(*RecordForm){
		func(f *RecordForm) { f.CustomerName = "" },
		func(f *RecordForm) { f.Email = "   " },
		func(f *RecordForm) { f.Project = "" },
		func(f *RecordForm) { f.Address = "" },
	}
	for _, blankField := range blank {
		l, notifier := loadedList(t, 50)
		before := l.Dataset()

		form := validForm()
		blankField(&form)
		_, err := l.Submit(form)

		var ve *ValidationError
		require.True(t, errors.As(err, &ve))
		assert.True(t, ve.MissingRequired())
		assert.Equal(t, before, l.Dataset())
		assert.Equal(t, []string{MissingFieldsMessage}, notifier.errors)
		assert.Empty(t, notifier.successes)
	}
}

func TestSubmitInvalidStatus(t *testing.T) {
	l, notifier := loadedList(t, 5)
	form := validForm()
	form.Status = "archived"

	_, err := l.Submit(form)
	require.Error(t, err)
	assert.Equal(t, "VAL002", MapError(err).Code)
	assert.Len(t, l.Dataset(), 5)
	assert.Len(t, notifier.errors, 1)
}

func TestSubmitWhileLoading(t *testing.T) {
	notifier := &recordingNotifier{}
	l := NewList(ListOptions{Notifier: notifier})

	_, err := l.Submit(validForm())
	assert.ErrorIs(t, err, ErrListLoading)
	assert.Empty(t, l.Dataset())
	assert.Empty(t, notifier.errors)
}

func TestSubmitResetsPageAndSelection(t *testing.T) {
	l, _ := loadedList(t, 50)
	l.SetPage(3)
	l.ToggleAll()

	_, err := l.Submit(validForm())
	require.NoError(t, err)

	v := l.Snapshot()
	assert.Equal(t, 1, v.Page)
	assert.Empty(t, v.SelectedIDs)
	assert.Equal(t, 51, v.TotalRecords)
}

func TestSubmitObserved(t *testing.T) {
	obs := &recordingObserver{}
	l := NewList(ListOptions{Observer: obs})
	require.NoError(t, l.Load(nil))

	_, err := l.Submit(RecordForm{})
	require.Error(t, err)
	_, err = l.Submit(validForm())
	require.NoError(t, err)

	require.Len(t, obs.submissions, 2)
	assert.Error(t, obs.submissions[0])
	assert.NoError(t, obs.submissions[1])
	assert.Equal(t, []string{TriggerLoad, TriggerSubmit}, obs.triggers)
}

func TestNewRecord(t *testing.T) {
	rec := NewRecord(RecordForm{CustomerName: "A", Email: "b", Project: "c", Address: "d", Status: "rejected"}, 0, fixedNow)
	assert.Equal(t, "#CM9801", rec.ID)
	assert.Equal(t, StatusRejected, rec.Status)
}
