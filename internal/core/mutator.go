package core

import (
	"time"

	"github.com/cockroachdb/errors"
)

// SubmitSuccessMessage is shown after a record is added.
const SubmitSuccessMessage = "Order added successfully!"

// NewRecord builds the record for a validated form. The id continues the
// "#CM" sequence after datasetLen existing records.
func NewRecord(form RecordForm, datasetLen int, now time.Time) Record {
	status := StatusPending
	if st, ok := ParseStatus(form.Status); ok {
		status = st
	}
	return Record{
		ID:           FormatRecordID(datasetLen + 1),
		CustomerName: form.CustomerName,
		Email:        form.Email,
		Project:      form.Project,
		Address:      form.Address,
		AvatarRef:    PlaceholderAvatar,
		DisplayDate:  FormatElapsed(0, now),
		Status:       status,
		CreatedAt:    now,
	}
}

// Submit validates form and, if it passes, inserts the new record at the
// front of the dataset. The outcome is also reported through the notifier.
func (l *List) Submit(form RecordForm) (Record, error) {
	rec, err := l.submit(form)

	var ve *ValidationError
	switch {
	case err == nil:
		l.notifier.Success(SubmitSuccessMessage)
	case errors.As(err, &ve):
		l.notifier.Error(ve.UserMessage())
	}
	if l.observer != nil {
		l.observer.Submitted(err)
	}
	return rec, err
}

func (l *List) submit(form RecordForm) (Record, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return Record{}, ErrSessionClosed
	}
	if l.loading {
		return Record{}, ErrListLoading
	}

	form, err := ValidateForm(form)
	if err != nil {
		return Record{}, err
	}

	rec := NewRecord(form, len(l.dataset), l.now())
	l.dataset = append([]Record{rec}, l.dataset...)
	l.selection.Clear()
	l.recomputeLocked(TriggerSubmit)
	return rec, nil
}
