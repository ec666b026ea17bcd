package mirror

import (
	"context"
	"sync"

	"github.com/disgoorg/snowflake/v2"
	"github.com/recuentobot/recuento/internal/tracker"
	"github.com/recuentobot/recuento/pkg/utils"
	"go.uber.org/zap"
)

var writeRetryOptions = utils.GetMirrorRetryOptions()

// writeTask carries the post-increment values for one counted message.
type writeTask struct {
	guildID      snowflake.ID
	memberID     snowflake.ID
	date         string
	day          tracker.Weekday
	daily        int
	weeklyForDay int
}

// Writer drains mirror writes off the event path. Increments enqueue a
// task and return immediately; a single consumer goroutine performs the
// Redis write with retries and logs failures. A failed write never rolls
// back the in-memory increment.
type Writer struct {
	mirror *Mirror
	tasks  chan writeTask
	done   chan struct{}
	logger *zap.Logger

	mu     sync.Mutex
	closed bool
}

// NewWriter starts the write consumer. Close must be called to drain it.
func NewWriter(mirror *Mirror, logger *zap.Logger) *Writer {
	w := &Writer{
		mirror: mirror,
		tasks:  make(chan writeTask, 256),
		done:   make(chan struct{}),
		logger: logger.Named("mirror_writer"),
	}

	go w.run()

	return w
}

// Enqueue schedules one message's counts for mirroring. If the buffer is
// full the task is dropped with a log line; the live counters remain
// correct and the next increment re-mirrors the weekly field, so the loss
// is bounded to a stale historical data point.
func (w *Writer) Enqueue(guildID, memberID snowflake.ID, date string, day tracker.Weekday, daily, weeklyForDay int) {
	task := writeTask{
		guildID:      guildID,
		memberID:     memberID,
		date:         date,
		day:          day,
		daily:        daily,
		weeklyForDay: weeklyForDay,
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		w.logger.Warn("Mirror writer closed, dropping write",
			zap.Uint64("guild_id", uint64(guildID)),
			zap.Uint64("member_id", uint64(memberID)))

		return
	}

	select {
	case w.tasks <- task:
	default:
		w.logger.Warn("Mirror write buffer full, dropping write",
			zap.Uint64("guild_id", uint64(guildID)),
			zap.Uint64("member_id", uint64(memberID)))
	}
}

// Close stops accepting tasks and waits for queued writes to finish.
// Enqueue calls arriving after Close drop their task instead of sending
// on the closed channel. Close is safe to call more than once.
func (w *Writer) Close() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}

	w.closed = true
	close(w.tasks)
	w.mu.Unlock()

	<-w.done
}

func (w *Writer) run() {
	defer close(w.done)

	for task := range w.tasks {
		ctx := context.Background()

		_, err := utils.WithRetry(ctx, func() (struct{}, error) {
			return struct{}{}, w.mirror.RecordMessage(
				ctx, task.guildID, task.memberID,
				task.date, task.day, task.daily, task.weeklyForDay,
			)
		}, writeRetryOptions)
		if err != nil {
			w.logger.Error("Failed to mirror message count",
				zap.Uint64("guild_id", uint64(task.guildID)),
				zap.Uint64("member_id", uint64(task.memberID)),
				zap.String("date", task.date),
				zap.Error(err))
		}
	}
}
