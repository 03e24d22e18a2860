package services

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/jobspher/jobspher/internal/models"
	mongorepo "github.com/jobspher/jobspher/internal/repositories/mongo"
)

// NotifyChannel is the redis pub/sub channel carrying a user's live
// notification stream.
func NotifyChannel(userID string) string { return "notify:" + userID }

// Notifier handles the post-commit side of a workflow transition: pushing
// the already-persisted notification to the live stream and recording the
// audit event. Every method is best-effort; failures are logged and never
// reach the workflow caller.
type Notifier struct {
	rdb   *redis.Client
	audit mongorepo.AuditRepository
	log   *logrus.Logger
}

func NewNotifier(rdb *redis.Client, audit mongorepo.AuditRepository, log *logrus.Logger) *Notifier {
	if log == nil {
		log = logrus.New()
	}
	return &Notifier{rdb: rdb, audit: audit, log: log}
}

func (n *Notifier) Push(ctx context.Context, notif *models.Notification) {
	if n == nil || n.rdb == nil || notif == nil {
		return
	}

	b, err := json.Marshal(notif)
	if err != nil {
		n.log.WithError(err).Warn("notifier: marshal failed")
		return
	}
	if err := n.rdb.Publish(ctx, NotifyChannel(notif.UserID), b).Err(); err != nil {
		n.log.WithError(err).WithField("user_id", notif.UserID).Warn("notifier: publish failed")
	}
}

func (n *Notifier) Audit(ctx context.Context, e *models.AuditEvent) {
	if n == nil || n.audit == nil || e == nil {
		return
	}

	if err := n.audit.Insert(ctx, e); err != nil {
		n.log.WithError(err).
			WithFields(logrus.Fields{"entity_kind": e.EntityKind, "entity_id": e.EntityID, "action": e.Action}).
			Warn("notifier: audit insert failed")
	}
}
