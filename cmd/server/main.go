// cmd/server/main.go
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/leadflow/sequencer-backend/internal/channel/whatsapp"
	"github.com/leadflow/sequencer-backend/internal/config"
	"github.com/leadflow/sequencer-backend/internal/controller"
	"github.com/leadflow/sequencer-backend/internal/db"
	"github.com/leadflow/sequencer-backend/internal/events"
	"github.com/leadflow/sequencer-backend/internal/lock"
	"github.com/leadflow/sequencer-backend/internal/media"
	"github.com/leadflow/sequencer-backend/internal/queue"
	"github.com/leadflow/sequencer-backend/internal/repository"
	"github.com/leadflow/sequencer-backend/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("failed to load config:", err)
	}

	// Queue storage
	pg, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("failed to connect to DB:", err)
	}

	// Lead store
	mongoClient, err := repository.ConnectMongo(cfg.MongoURI)
	if err != nil {
		log.Fatal("failed to connect to lead store:", err)
	}
	leadRepo := &repository.LeadRepository{
		Coll: mongoClient.Database(cfg.MongoDB).Collection("leads"),
	}
	jobRepo := &repository.SequenceJobRepository{DB: pg}

	// Messaging channel
	ctx := context.Background()
	waClient, err := whatsapp.New(ctx, cfg.WADBPath, &media.FFmpeg{})
	if err != nil {
		log.Fatal("failed to init whatsapp client:", err)
	}
	go func() {
		if err := waClient.Connect(ctx); err != nil {
			logrus.WithError(err).Error("whatsapp connect failed, channel stays offline")
		}
	}()

	// Outcome events are best-effort: a missing broker must not stop sends.
	var publisher events.Publisher
	if p, err := events.NewAMQPPublisher(cfg.AmqpURL); err != nil {
		logrus.WithError(err).Warn("rabbitmq unavailable, dispatch events disabled")
	} else {
		publisher = p
		defer p.Close()
	}

	dispatcher := &service.Dispatcher{Channel: waClient}
	seqQueue := &queue.SequenceQueue{
		Jobs:       jobRepo,
		Leads:      leadRepo,
		Dispatcher: dispatcher,
		Events:     publisher,
	}
	processor := &service.Processor{
		Locks:       lock.NewRegistry(),
		Queue:       seqQueue,
		BatchSize:   cfg.BatchSize,
		LockTimeout: cfg.LockTimeout,
	}

	gateway := &controller.GatewayController{
		Processor:  processor,
		Dispatcher: dispatcher,
		Channel:    waClient,
		Leads:      leadRepo,
		Jobs:       jobRepo,
	}

	// Scheduler tick
	scheduler := cron.New()
	if _, err := scheduler.AddFunc(fmt.Sprintf("@every %s", cfg.TickInterval), func() {
		processor.ProcessSequences(context.Background())
	}); err != nil {
		log.Fatal("failed to schedule sequence tick:", err)
	}
	scheduler.Start()

	r := chi.NewRouter()

	// Sequence routes
	r.Post("/sequences/process", gateway.ProcessSequences)
	r.Post("/sequences/jobs", gateway.CreateJob)
	r.Get("/sequences/stats", gateway.SequenceStats)

	// Channel routes
	r.Get("/channel/status", gateway.ChannelStatus)

	// Lead routes
	r.Get("/leads/{id}", gateway.GetLead)
	r.Patch("/leads/{id}", gateway.MergeLead)
	r.Post("/leads/{id}/send", gateway.SendToLead)

	log.Println("🚀 Server running on :" + cfg.Port)
	log.Fatal(http.ListenAndServe(":"+cfg.Port, r))
}
