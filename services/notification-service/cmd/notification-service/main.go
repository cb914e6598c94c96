package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/mindharbour/booking/libs/config"
	"github.com/mindharbour/booking/libs/db"
	"github.com/mindharbour/booking/libs/httpx"
	"github.com/mindharbour/booking/libs/kafkax"
	otelx "github.com/mindharbour/booking/libs/otel"
	"github.com/mindharbour/booking/libs/runtime"
	"github.com/mindharbour/booking/services/notification-service/internal/consumer"
	"github.com/mindharbour/booking/services/notification-service/internal/email"
	"github.com/mindharbour/booking/services/notification-service/internal/inbox"
	"github.com/mindharbour/booking/services/notification-service/internal/sheets"
	"github.com/mindharbour/booking/services/notification-service/internal/storage"
	"github.com/mindharbour/booking/services/notification-service/internal/upi"
	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type bookingCreatedPayload struct {
	BookingID string `json:"booking_id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Country   string `json:"country"`
	Age       *int   `json:"age"`
	Phone     string `json:"phone"`
	Service   string `json:"service"`
	Date      string `json:"date"`
	Time      string `json:"time"`
	CreatedAt string `json:"created_at"`
}

type paymentConfirmedPayload struct {
	BookingID   string `json:"booking_id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	PaymentID   string `json:"payment_id"`
	ConfirmedAt string `json:"confirmed_at"`
}

// dispatcher fans a booking event out to mail, the spreadsheet export and the
// delivery log. Every outlet is best-effort: a failure is logged and recorded,
// it never bounces the event back to Kafka.
type dispatcher struct {
	logger     *slog.Logger
	sender     email.Sender
	records    *storage.Repository
	appender   *sheets.Appender
	upiCfg     upi.Config
	qrDir      string
	ownerEmail string
}

func (d *dispatcher) record(ctx context.Context, n storage.Notification) {
	if err := d.records.Insert(ctx, n); err != nil {
		d.logger.Error("failed to persist notification", "err", err, "booking_id", n.BookingID, "channel", n.Channel)
	}
}

func (d *dispatcher) sendMail(ctx context.Context, bookingID, recipient, subject, body string, payload map[string]any) {
	status := storage.StatusSent
	if err := d.sender.Send(recipient, subject, body); err != nil {
		status = storage.StatusFailed
		d.logger.Error("email send failed", "err", err, "recipient", recipient, "booking_id", bookingID)
	}
	d.record(ctx, storage.Notification{
		BookingID: bookingID,
		Channel:   "email",
		Recipient: recipient,
		Payload:   payload,
		Status:    status,
	})
}

func (d *dispatcher) handleBookingCreated(ctx context.Context, msg kafka.Message) error {
	var p bookingCreatedPayload
	if err := json.Unmarshal(msg.Value, &p); err != nil {
		d.logger.Error("invalid booking.created payload", "err", err)
		return nil
	}
	if p.BookingID == "" || p.Email == "" {
		d.logger.Error("missing booking fields", "booking_id", p.BookingID)
		return nil
	}

	details := email.BookingDetails{
		BookingID: p.BookingID,
		Name:      p.Name,
		Email:     p.Email,
		Country:   p.Country,
		Phone:     p.Phone,
		Service:   p.Service,
		Date:      p.Date,
		Time:      p.Time,
	}
	if p.Age != nil {
		details.Age = fmt.Sprintf("%d", *p.Age)
	}
	meta := map[string]any{"date": p.Date, "time": p.Time, "service": p.Service}

	if d.ownerEmail != "" {
		subject, body := email.NewBookingMessage(details)
		d.sendMail(ctx, p.BookingID, d.ownerEmail, subject, body, meta)
	}

	if d.upiCfg.Enabled() {
		link := upi.Link(d.upiCfg, p.BookingID)
		if d.qrDir != "" {
			if path, err := upi.WriteQR(d.qrDir, p.BookingID, link); err != nil {
				d.logger.Error("qr render failed", "err", err, "booking_id", p.BookingID)
			} else {
				d.logger.Info("payment qr written", "booking_id", p.BookingID, "path", path)
			}
		}
		subject, body := email.PaymentRequestMessage(details, link)
		d.sendMail(ctx, p.BookingID, p.Email, subject, body, meta)
	}

	if d.appender != nil {
		bookedAt, err := time.Parse(time.RFC3339, p.CreatedAt)
		if err != nil {
			bookedAt = time.Now().UTC()
		}
		row := sheets.Row{
			Name:     p.Name,
			Email:    p.Email,
			Country:  p.Country,
			Age:      details.Age,
			Phone:    p.Phone,
			Date:     p.Date,
			Time:     p.Time,
			Service:  p.Service,
			BookedAt: bookedAt,
		}
		status := storage.StatusSent
		if err := d.appender.Append(ctx, row); err != nil {
			status = storage.StatusFailed
			d.logger.Error("sheet append failed", "err", err, "booking_id", p.BookingID)
		}
		d.record(ctx, storage.Notification{
			BookingID: p.BookingID,
			Channel:   "sheet",
			Recipient: sheets.TabName(bookedAt),
			Payload:   meta,
			Status:    status,
		})
	}

	d.logger.Info("booking.created processed", "booking_id", p.BookingID)
	return nil
}

func (d *dispatcher) handlePaymentConfirmed(ctx context.Context, msg kafka.Message) error {
	var p paymentConfirmedPayload
	if err := json.Unmarshal(msg.Value, &p); err != nil {
		d.logger.Error("invalid payment.confirmed payload", "err", err)
		return nil
	}
	if p.BookingID == "" || p.Email == "" {
		d.logger.Error("missing confirmation fields", "booking_id", p.BookingID)
		return nil
	}

	details := email.BookingDetails{
		BookingID: p.BookingID,
		Name:      p.Name,
		Email:     p.Email,
		Date:      p.Date,
		Time:      p.Time,
		PaymentID: p.PaymentID,
	}
	subject, body := email.ConfirmedMessage(details)
	d.sendMail(ctx, p.BookingID, p.Email, subject, body, map[string]any{
		"date": p.Date, "time": p.Time, "payment_id": p.PaymentID,
	})

	d.logger.Info("payment.confirmed processed", "booking_id", p.BookingID)
	return nil
}

func main() {
	service := config.String("SERVICE_NAME", "notification-service")
	port, err := config.Port("PORT", "8082")
	if err != nil {
		panic(err)
	}
	logger := runtime.NewLogger(service)

	ctx, stop := runtime.SignalContext()
	defer stop()

	otelShutdown, err := otelx.Setup(ctx, otelx.ConfigFromEnv(service))
	if err != nil {
		logger.Error("otel setup failed", "err", err)
	} else {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = otelShutdown(shutdownCtx)
		}()
	}

	dbURL, err := config.RequiredString("DATABASE_URL")
	if err != nil {
		panic(err)
	}

	pool, err := db.Open(ctx, dbURL)
	if err != nil {
		logger.Error("db connection failed", "err", err)
		panic(err)
	}
	defer pool.Close()

	inboxRepo := inbox.NewRepository(pool)

	var appender *sheets.Appender
	credsFile := config.String("SHEETS_CREDENTIALS_FILE", "")
	spreadsheetID := config.String("SHEETS_SPREADSHEET_ID", "")
	if credsFile != "" && spreadsheetID != "" {
		appender, err = sheets.NewAppender(ctx, credsFile, spreadsheetID)
		if err != nil {
			logger.Error("sheets client setup failed", "err", err)
			appender = nil
		}
	} else {
		logger.Info("sheets export disabled")
	}

	d := &dispatcher{
		logger: logger,
		sender: email.NewSMTPSender(
			config.String("SMTP_HOST", "mailpit"),
			config.String("SMTP_PORT", "1025"),
			config.String("SMTP_FROM", "no-reply@mindharbour.local"),
			config.String("SMTP_USERNAME", ""),
			config.String("SMTP_PASSWORD", ""),
		),
		records:  storage.NewRepository(pool),
		appender: appender,
		upiCfg: upi.Config{
			VPA:       config.String("UPI_VPA", ""),
			PayeeName: config.String("UPI_PAYEE_NAME", "Mind Harbour"),
			Amount:    config.String("UPI_AMOUNT", ""),
		},
		qrDir:      config.String("QR_DIR", ""),
		ownerEmail: config.String("OWNER_EMAIL", ""),
	}

	brokers := config.String("KAFKA_BROKERS", "")
	groupID := config.String("KAFKA_GROUP_ID", "notification-service")

	bookingConsumer := consumer.New(logger, inboxRepo, consumer.Config{
		Brokers: brokers,
		GroupID: groupID,
		Topic:   config.String("KAFKA_BOOKING_TOPIC", "booking.created.v1"),
	}, d.handleBookingCreated)
	go bookingConsumer.Run(ctx)

	paymentConsumer := consumer.New(logger, inboxRepo, consumer.Config{
		Brokers: brokers,
		GroupID: groupID,
		Topic:   config.String("KAFKA_PAYMENT_TOPIC", "booking.payment.confirmed.v1"),
	}, d.handlePaymentConfirmed)
	go paymentConsumer.Run(ctx)

	mux := runtime.NewBaseMuxWithReady(
		runtime.ReadyCheck{Name: "db", Check: db.ReadyCheck(pool)},
		runtime.ReadyCheck{Name: "kafka", Check: kafkax.ReadyCheck(brokers)},
	)
	handler := httpx.Chain(mux,
		httpx.WithRequestID,
		httpx.WithAccessLog(logger),
	)
	handler = otelhttp.NewHandler(handler, "notification")
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("http server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server error", "err", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "err", err)
	}
	logger.Info("http server stopped")
}
