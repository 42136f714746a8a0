package scheduler

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/jonboulle/clockwork"

	"combain-support-bot/internal/models"
)

const broadcastInterval = 7 * 24 * time.Hour

// Sender is the outbound half of the Telegram API; *tgbotapi.BotAPI satisfies it.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Users is the registration set as seen by the scheduled jobs.
type Users interface {
	Registered() []models.User
	Evict(before time.Time) (int, error)
}

type Config struct {
	Location  *time.Location
	Weekday   time.Weekday
	Hour      int
	Minute    int
	Message   string
	Retention time.Duration // 0 -> no cleanup job
}

// Stats summarises one broadcast run.
type Stats struct {
	Total  int
	Sent   int
	Failed int
}

// Scheduler owns the one shared weekly promotion job and the retention job.
type Scheduler struct {
	cron      gocron.Scheduler
	clock     clockwork.Clock
	bot       Sender
	users     Users
	cfg       Config
	log       *slog.Logger
	broadcast gocron.Job
}

func Start(cfg Config, users Users, bot Sender, clock clockwork.Clock, log *slog.Logger) (*Scheduler, error) {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if log == nil {
		log = slog.Default()
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}

	cron, err := gocron.NewScheduler(
		gocron.WithLocation(cfg.Location),
		gocron.WithClock(clock),
	)
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}

	s := &Scheduler{cron: cron, clock: clock, bot: bot, users: users, cfg: cfg, log: log}

	now := clock.Now()
	next := NextFire(now, cfg.Location, cfg.Weekday, cfg.Hour, cfg.Minute)

	s.broadcast, err = cron.NewJob(
		gocron.DurationJob(broadcastInterval),
		gocron.NewTask(func() { s.Broadcast() }),
		gocron.WithName("weekly-promotion"),
		gocron.WithStartAt(gocron.WithStartDateTime(next)),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = cron.Shutdown()
		return nil, fmt.Errorf("schedule weekly promotion: %w", err)
	}

	if cfg.Retention > 0 {
		_, err = cron.NewJob(
			gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(3, 0, 0))),
			gocron.NewTask(func() { s.EvictInactive() }),
			gocron.WithName("retention"),
			gocron.WithSingletonMode(gocron.LimitModeReschedule),
		)
		if err != nil {
			_ = cron.Shutdown()
			return nil, fmt.Errorf("schedule retention: %w", err)
		}
	}

	cron.Start()
	log.Info("promotion scheduler started",
		"first_fire", next.Format(time.RFC3339),
		"first_fire_delay_seconds", FirstFireDelay(now, next),
		"interval_seconds", int64(broadcastInterval/time.Second))

	return s, nil
}

// Promote sends the current promotion to one chat right away.
func (s *Scheduler) Promote(chatID int64) error {
	if _, err := s.bot.Send(tgbotapi.NewMessage(chatID, s.cfg.Message)); err != nil {
		return fmt.Errorf("send promotion to %d: %w", chatID, err)
	}
	return nil
}

// Message is the promotion currently being sent.
func (s *Scheduler) Message() string { return s.cfg.Message }

// Broadcast sends the promotion to every registered user. A failed send is
// logged and counted; it never stops delivery to the rest.
func (s *Scheduler) Broadcast() Stats {
	users := s.users.Registered()
	st := Stats{Total: len(users)}

	for _, u := range users {
		if err := s.Promote(u.ChatID); err != nil {
			st.Failed++
			s.log.Warn("promotion not delivered", "user_id", u.ID, "chat_id", u.ChatID, "err", err)
			continue
		}
		st.Sent++
		s.log.Debug("promotion delivered", "user_id", u.ID, "chat_id", u.ChatID)
	}

	s.log.Info("weekly promotion sent", "total", st.Total, "sent", st.Sent, "failed", st.Failed)
	return st
}

// EvictInactive drops users not seen within the retention window.
func (s *Scheduler) EvictInactive() int {
	cutoff := s.clock.Now().Add(-s.cfg.Retention)
	n, err := s.users.Evict(cutoff)
	if err != nil {
		s.log.Error("retention cleanup", "err", err)
	}
	s.log.Info("inactive users evicted", "count", n, "cutoff", cutoff.Format(time.RFC3339))
	return n
}

// NextBroadcast is when the weekly promotion fires next.
func (s *Scheduler) NextBroadcast() (time.Time, error) {
	return s.broadcast.NextRun()
}

func (s *Scheduler) Shutdown() error {
	return s.cron.Shutdown()
}
