package feed

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedAck struct {
	status  AckStatus
	message string
}

type fakeTarget struct {
	acks []recordedAck
}

func (f *fakeTarget) SuccessStatus() AckStatus { return AckOK }
func (f *fakeTarget) ErrorStatus() AckStatus   { return AckError }
func (f *fakeTarget) ApplyAckResult(status AckStatus, message string, _ time.Time) {
	f.acks = append(f.acks, recordedAck{status, message})
}

func TestAckBatchMessageIDs(t *testing.T) {
	batch := NewAckBatch()
	assert.True(t, batch.IsEmpty())

	a := batch.Add("DOC-1", &fakeTarget{})
	b := batch.Add("DOC-2", &fakeTarget{})
	c := batch.Add("DOC-3", &fakeTarget{})

	assert.Equal(t, 1, a.MessageID)
	assert.Equal(t, 2, b.MessageID)
	assert.Equal(t, 3, c.MessageID)
	assert.Len(t, batch.Lines(), 3)
}

func TestReconcile(t *testing.T) {
	now := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	t.Run("unmentioned messages succeed", func(t *testing.T) {
		t1, t2 := &fakeTarget{}, &fakeTarget{}
		batch := NewAckBatch()
		batch.Add("DOC-1", t1)
		batch.Add("DOC-2", t2)

		report := ProcessingReport{
			SubmissionID: "SUB-1",
			Results: []ProcessingResult{
				{MessageID: 2, Code: "Error", Description: "invalid order id"},
			},
		}
		batch.Reconcile(report, now)

		require.Len(t, t1.acks, 1)
		assert.Equal(t, AckOK, t1.acks[0].status)
		require.Len(t, t2.acks, 1)
		assert.Equal(t, AckError, t2.acks[0].status)
		assert.Equal(t, "invalid order id", t2.acks[0].message)
	})

	t.Run("sentinel id zero fails every message", func(t *testing.T) {
		t1, t2 := &fakeTarget{}, &fakeTarget{}
		batch := NewAckBatch()
		batch.Add("DOC-1", t1)
		batch.Add("DOC-2", t2)

		report := ProcessingReport{
			Results: []ProcessingResult{
				{MessageID: ApplyToAllMessageID, Code: "Rejected", Description: "feed rejected"},
			},
		}
		batch.Reconcile(report, now)

		for _, target := range []*fakeTarget{t1, t2} {
			require.Len(t, target.acks, 1)
			assert.Equal(t, AckError, target.acks[0].status)
			assert.Equal(t, "feed rejected", target.acks[0].message)
		}
	})

	t.Run("explicit success code does not error", func(t *testing.T) {
		t1 := &fakeTarget{}
		batch := NewAckBatch()
		batch.Add("DOC-1", t1)

		report := ProcessingReport{
			Results: []ProcessingResult{{MessageID: 1, Code: "Success"}},
		}
		batch.Reconcile(report, now)

		require.Len(t, t1.acks, 1)
		assert.Equal(t, AckOK, t1.acks[0].status)
	})
}
