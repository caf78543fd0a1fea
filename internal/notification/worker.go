package notification

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"
	"gorm.io/gorm"

	"gym-aforo-backend/internal/model"
)

// Sender defines the interface for sending a web push notification.
type Sender interface {
	Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

// WebPushSender is the real Sender implementation using the webpush library.
type WebPushSender struct{}

// Send sends a notification using the webpush library.
func (s *WebPushSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return webpush.SendNotification(payload, sub, options)
}

// AlertJob describes one room whose alert level just rose.
type AlertJob struct {
	Room   string
	Status model.OccupancyStatus
}

// WorkerPool fans occupancy alerts out to the room's push subscribers.
type WorkerPool struct {
	size    int
	jobs    chan AlertJob
	db      *gorm.DB
	webpush *webpush.Options
	sender  Sender
}

// NewWorkerPool creates a new worker pool.
func NewWorkerPool(size int, db *gorm.DB, webpushOptions *webpush.Options) *WorkerPool {
	return &WorkerPool{
		size:    size,
		jobs:    make(chan AlertJob, size*4),
		db:      db,
		webpush: webpushOptions,
		sender:  &WebPushSender{},
	}
}

// Start launches the worker goroutines.
func (wp *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < wp.size; i++ {
		go wp.worker(ctx, i)
	}
}

func (wp *WorkerPool) worker(ctx context.Context, id int) {
	log.Printf("Alert worker %d started", id)
	for {
		select {
		case job := <-wp.jobs:
			wp.notifyRoomSubscribers(ctx, job)
		case <-ctx.Done():
			log.Printf("Alert worker %d shutting down", id)
			return
		}
	}
}

// AlertRaised queues an alert for delivery. It never blocks: the engine
// calls it while holding the room's admission lock, so a full queue drops
// the alert instead of stalling check-ins.
func (wp *WorkerPool) AlertRaised(room string, status model.OccupancyStatus) {
	select {
	case wp.jobs <- AlertJob{Room: room, Status: status}:
	default:
		log.Printf("Alert queue full, dropping alert for room %q", room)
	}
}

// Jobs returns the jobs channel for testing.
func (wp *WorkerPool) Jobs() chan AlertJob {
	return wp.jobs
}

// notifyRoomSubscribers fetches the room's subscriptions and pushes the
// alert to each of them.
func (wp *WorkerPool) notifyRoomSubscribers(ctx context.Context, job AlertJob) {
	var subscriptions []model.PushSubscription
	err := wp.db.WithContext(ctx).
		Joins("JOIN subscription_room_mapping srm ON srm.push_subscription_endpoint = push_subscriptions.endpoint").
		Where("srm.room_name = ?", job.Room).
		Find(&subscriptions).Error
	if err != nil {
		log.Printf("Error fetching subscriptions for room %q: %v", job.Room, err)
		return
	}

	if len(subscriptions) == 0 {
		return
	}

	log.Printf("Sending %d alert notifications for room %q", len(subscriptions), job.Room)

	var message string
	if job.Status.AlertLevel == model.AlertCritical {
		message = fmt.Sprintf("¡Sala %s llena! Aforo %d/%d (%d%%)",
			job.Room, job.Status.CurrentOccupancy, job.Status.MaxCapacity, job.Status.Percentage)
	} else {
		message = fmt.Sprintf("Sala %s casi llena: aforo %d/%d (%d%%)",
			job.Room, job.Status.CurrentOccupancy, job.Status.MaxCapacity, job.Status.Percentage)
	}

	for _, sub := range subscriptions {
		wp.sendNotification(ctx, sub, []byte(message))
	}
}

// sendNotification sends a single web push notification.
func (wp *WorkerPool) sendNotification(ctx context.Context, sub model.PushSubscription, payload []byte) {
	wpSub := &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256DH,
			Auth:   sub.Auth,
		},
	}

	resp, err := wp.sender.Send(payload, wpSub, wp.webpush)
	if err != nil {
		log.Printf("Error sending notification to %s: %v", sub.Endpoint, err)
		return
	}
	defer resp.Body.Close()

	// Handle expired subscriptions
	if resp.StatusCode == http.StatusGone {
		log.Printf("Subscription for endpoint %s is expired. Deleting.", sub.Endpoint)
		if err := wp.db.WithContext(ctx).Delete(&sub).Error; err != nil {
			log.Printf("Failed to delete expired subscription %s: %v", sub.Endpoint, err)
		}
	}
}
