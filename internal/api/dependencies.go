package api

import (
	"os"

	"biblioruche/hive/internal/common"
	"biblioruche/hive/internal/db"
	"biblioruche/hive/internal/db/repositories"
	"biblioruche/hive/internal/logging"
	"biblioruche/hive/internal/metrics"
	"biblioruche/hive/internal/services"

	"github.com/redis/go-redis/v9"
)

type Repositories struct {
	User        *repositories.UserRepository
	Proposal    *repositories.ProposalRepository
	Voting      *repositories.VotingRepository
	ClubSession *repositories.ClubSessionRepository
	Review      *repositories.ReviewRepository
	Badge       *repositories.BadgeRepository
	Notif       *repositories.NotificationRepository
	Ebook       *repositories.EbookRepository
	Stats       *repositories.StatsRepository
}

type Services struct {
	Cache        common.CacheInterface
	Session      *common.SessionService
	Twitch       *common.TwitchService
	OpenLibrary  *common.OpenLibraryService
	URLSigner    *common.URLSignerService
	RedisQueue   *common.RedisQueueService
	Files        *common.FileStore

	Notifications *services.NotificationService
	Stats         *services.StatsService
	Badges        *services.BadgeService
	Voting        *services.VotingService
	ClubSessions  *services.ClubSessionService
	Proposals     *services.ProposalService
	Reviews       *services.ReviewService
	Users         *services.UserService
	Ebooks        *services.EbookService
	Cleanup       *services.CleanupService
}

type Dependencies struct {
	Repo     *Repositories
	Services *Services
	Redis    *redis.Client
	Metrics  *metrics.MetricsRegistry
}

func InitDependencies(metricsReg *metrics.MetricsRegistry) (*Dependencies, error) {

	repos := &Repositories{
		User:        repositories.NewUserRepository(db.PgDB),
		Proposal:    repositories.NewProposalRepository(db.PgDB),
		Voting:      repositories.NewVotingRepository(db.PgDB),
		ClubSession: repositories.NewClubSessionRepository(db.PgDB),
		Review:      repositories.NewReviewRepository(db.PgDB),
		Badge:       repositories.NewBadgeRepository(db.PgDB),
		Notif:       repositories.NewNotificationRepository(db.PgDB),
		Ebook:       repositories.NewEbookRepository(db.PgDB),
		Stats:       repositories.NewStatsRepository(db.DB),
	}

	redisClient := common.NewRedisClient()

	// Redis-backed cache by default; CACHE_BACKEND=memory keeps everything
	// process-local for single-node setups.
	var cache common.CacheInterface
	if os.Getenv("CACHE_BACKEND") == "memory" {
		cache = common.NewCacheService(300, 600)
		logging.Info("Using in-memory cache")
	} else {
		cache = common.NewRedisCacheService(redisClient)
	}

	signingSecret := os.Getenv("URL_SIGNING_SECRET")
	if signingSecret == "" {
		signingSecret = os.Getenv("SECRET_KEY")
	}

	files, err := common.NewFileStore(os.Getenv("EBOOK_DIR"))
	if err != nil {
		return nil, err
	}

	queue := common.NewRedisQueueService(redisClient)
	signer := common.NewURLSignerService([]byte(signingSecret), redisClient)

	notifSvc := services.NewNotificationService(repos.Notif, repos.User, queue, metricsReg)
	statsSvc := services.NewStatsService(repos.Stats, cache, metricsReg)
	badgeSvc := services.NewBadgeService(repos.Badge, statsSvc, notifSvc, metricsReg)

	svcs := &Services{
		Cache:       cache,
		Session:     common.NewSessionService(redisClient),
		Twitch:      common.NewTwitchService(),
		OpenLibrary: common.NewOpenLibraryService(cache),
		URLSigner:   signer,
		RedisQueue:  queue,
		Files:       files,

		Notifications: notifSvc,
		Stats:         statsSvc,
		Badges:        badgeSvc,
		Voting:        services.NewVotingService(repos.Voting, repos.Proposal, notifSvc, metricsReg),
		ClubSessions:  services.NewClubSessionService(repos.ClubSession, repos.Proposal, badgeSvc, notifSvc),
		Proposals:     services.NewProposalService(repos.Proposal, repos.Review, repos.Stats, badgeSvc, notifSvc, metricsReg),
		Reviews:       services.NewReviewService(repos.Review, repos.Proposal, repos.ClubSession, badgeSvc),
		Ebooks:        services.NewEbookService(repos.Ebook, files, signer, metricsReg),
		Cleanup:       services.NewCleanupService(repos.Voting, repos.Proposal, repos.Notif),
	}
	svcs.Users = services.NewUserService(repos.User, statsSvc, badgeSvc, svcs.Reviews, svcs.Twitch)

	return &Dependencies{
		Repo:     repos,
		Services: svcs,
		Redis:    redisClient,
		Metrics:  metricsReg,
	}, nil
}
