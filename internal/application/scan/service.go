package scan

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"time"

	"github.com/trustnet-ai/api/internal/domain"
	"github.com/trustnet-ai/api/internal/pkg/id"
)

// mediaURLTTL bounds how long a presigned download link stays valid.
const mediaURLTTL = 15 * time.Minute

// ObjectStore keeps uploaded media for later review.
type ObjectStore interface {
	Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error)
	PresignedURL(ctx context.Context, key string, ttl time.Duration) (string, error)
	Delete(ctx context.Context, key string) error
}

// Repository persists scan rows.
type Repository interface {
	Insert(ctx context.Context, s *domain.Scan) error
	Get(ctx context.Context, scanID string) (*domain.Scan, error)
	ListByEmail(ctx context.Context, email string, limit int) ([]domain.Scan, error)
}

// AnalyzeInput is one analysis request: either an uploaded media file or a
// pasted text message.
type AnalyzeInput struct {
	UserEmail   string
	Kind        string // image | voice | video | message
	Reader      io.Reader
	Filename    string
	ContentType string
	Size        int64
	Message     string
}

type Service interface {
	Analyze(ctx context.Context, in AnalyzeInput) (*domain.Scan, error)
	Get(ctx context.Context, scanID, requesterEmail string) (*domain.Scan, error)
	List(ctx context.Context, requesterEmail string) ([]domain.Scan, error)
	MediaURL(ctx context.Context, scanID, requesterEmail string) (string, error)
}

type service struct {
	repo  Repository
	store ObjectStore

	// The verdict is a uniform random draw; there is no detection model
	// behind it. Injected so tests can force each branch.
	drawPct    func() float64
	confidence func() int
}

func NewService(repo Repository, store ObjectStore) Service {
	return &service{
		repo:       repo,
		store:      store,
		drawPct:    func() float64 { return rand.Float64() * 100 },
		confidence: func() int { return 70 + rand.Intn(26) },
	}
}

func (s *service) Analyze(ctx context.Context, in AnalyzeInput) (*domain.Scan, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	scan := &domain.Scan{
		ScanID:    id.New(),
		UserEmail: domain.NormalizeEmail(in.UserEmail),
		Kind:      in.Kind,
		CreatedAt: time.Now().UTC(),
	}

	if in.Kind != domain.ScanKindMessage {
		key := fmt.Sprintf("scans/%s/%s", scan.ScanID, in.Filename)
		if _, err := s.store.Upload(ctx, key, in.Reader, in.ContentType); err != nil {
			return nil, err
		}
		scan.ObjectKey = key
	}

	scan.Verdict, scan.Recommendation = verdictFor(s.drawPct(), in.Kind)
	scan.Confidence = s.confidence()

	if err := s.repo.Insert(ctx, scan); err != nil {
		if scan.ObjectKey != "" {
			if derr := s.store.Delete(ctx, scan.ObjectKey); derr != nil {
				slog.Warn("orphaned scan media cleanup failed", "key", scan.ObjectKey, "err", derr)
			}
		}
		return nil, err
	}
	return scan, nil
}

func (s *service) Get(ctx context.Context, scanID, requesterEmail string) (*domain.Scan, error) {
	scan, err := s.repo.Get(ctx, scanID)
	if err != nil {
		return nil, err
	}
	if scan.UserEmail != domain.NormalizeEmail(requesterEmail) {
		return nil, fmt.Errorf("scan belongs to another user: %w", domain.ErrNotFound)
	}
	return scan, nil
}

func (s *service) List(ctx context.Context, requesterEmail string) ([]domain.Scan, error) {
	return s.repo.ListByEmail(ctx, domain.NormalizeEmail(requesterEmail), 50)
}

// MediaURL returns a short-lived download link for the media behind a scan.
// Ownership rules match Get.
func (s *service) MediaURL(ctx context.Context, scanID, requesterEmail string) (string, error) {
	scan, err := s.Get(ctx, scanID, requesterEmail)
	if err != nil {
		return "", err
	}
	if scan.ObjectKey == "" {
		return "", fmt.Errorf("scan has no stored media: %w", domain.ErrNotFound)
	}
	return s.store.PresignedURL(ctx, scan.ObjectKey, mediaURLTTL)
}

func validateInput(in AnalyzeInput) error {
	switch in.Kind {
	case domain.ScanKindMessage:
		if in.Message == "" {
			return fmt.Errorf("message text is required: %w", domain.ErrBadRequest)
		}
	case domain.ScanKindImage, domain.ScanKindVoice:
		if in.Reader == nil {
			return fmt.Errorf("media file is required: %w", domain.ErrBadRequest)
		}
		if in.Size > domain.MaxMediaUploadBytes {
			return fmt.Errorf("file exceeds 10MB limit: %w", domain.ErrBadRequest)
		}
	case domain.ScanKindVideo:
		if in.Reader == nil {
			return fmt.Errorf("media file is required: %w", domain.ErrBadRequest)
		}
		if in.Size > domain.MaxVideoUploadBytes {
			return fmt.Errorf("file exceeds 20MB limit: %w", domain.ErrBadRequest)
		}
	default:
		return fmt.Errorf("unknown scan kind %q: %w", in.Kind, domain.ErrBadRequest)
	}
	return nil
}

// verdictFor maps a draw in [0,100) onto the three result branches.
func verdictFor(pct float64, kind string) (domain.Verdict, string) {
	isMessage := kind == domain.ScanKindMessage
	switch {
	case pct < 33:
		if isMessage {
			return domain.VerdictLikelyFraudulent, "This message matches known phishing patterns and scam indicators. Exercise extreme caution. Do not share or act upon this content."
		}
		return domain.VerdictLikelyFraudulent, "This media shows strong indicators of artificial generation. Exercise extreme caution. Do not share or act upon this content."
	case pct < 66:
		return domain.VerdictSuspicious, "This content contains some anomalies that warrant further investigation. Verify through additional sources before trusting."
	default:
		if isMessage {
			return domain.VerdictLikelyAuthentic, "This message appears to be genuine with no significant issues detected. Always verify important content through multiple sources."
		}
		return domain.VerdictLikelyAuthentic, "This media appears to be genuine with no significant issues detected. Always verify important content through multiple sources."
	}
}
