package main

import (
	"context"
	"net/http"
	"time"

	"github.com/rolewarden/backend/config"
	"github.com/rolewarden/backend/internal/client"
	"github.com/rolewarden/backend/internal/common"
	"github.com/rolewarden/backend/internal/domain"
	"github.com/rolewarden/backend/internal/repository"
	"github.com/rolewarden/backend/migration"
	"github.com/rolewarden/backend/pkg/api"
	"github.com/rolewarden/backend/pkg/api/discord"
	"github.com/rolewarden/backend/pkg/logger"
	"github.com/rolewarden/backend/pkg/xcontext"
	"github.com/rolewarden/backend/pkg/xredis"
	"github.com/urfave/cli/v2"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

type srv struct {
	app *cli.App
	ctx context.Context

	guildRepo      repository.GuildRepository
	userAccessRepo repository.UserAccessRepository

	securityStore   *common.SecurityStore
	rankResolver    *common.RankResolver
	discordEndpoint *discord.Endpoint
	seniorityCaller client.SeniorityCaller

	roleAdminDomain domain.RoleAdminDomain
}

func (s *srv) loadConfig(cliCtx *cli.Context) {
	configs, err := config.Load(cliCtx.String("config"))
	if err != nil {
		panic(err)
	}

	s.ctx = xcontext.WithConfigs(context.Background(), configs)
}

func (s *srv) loadLogger() {
	level := logger.ParseLevel(xcontext.Configs(s.ctx).LogLevel)
	s.ctx = xcontext.WithLogger(s.ctx, logger.NewLogger(level))
}

func (s *srv) loadDatabase() {
	db, err := gorm.Open(mysql.New(mysql.Config{
		DSN:                      xcontext.Configs(s.ctx).Database.ConnectionString(),
		DefaultStringSize:        256,
		DisableDatetimePrecision: true,
		DontSupportRenameIndex:   true,
		DontSupportRenameColumn:  true,
	}), &gorm.Config{})
	if err != nil {
		panic(err)
	}

	s.ctx = xcontext.WithDB(s.ctx, db)
}

func (s *srv) loadRepos() {
	redisClient, err := xredis.NewClient(s.ctx)
	if err != nil {
		panic(err)
	}

	s.guildRepo = repository.NewGuildRepository(redisClient)
	s.userAccessRepo = repository.NewUserAccessRepository()
}

func (s *srv) loadSecurityStore() {
	s.securityStore = common.NewSecurityStore(s.guildRepo, s.userAccessRepo)
	if err := s.securityStore.Load(s.ctx); err != nil {
		// Refusing to start without the lists beats running with empty ones.
		panic(err)
	}

	s.rankResolver = common.NewRankResolver(
		s.securityStore,
		xcontext.Configs(s.ctx).Discord.CreatorID,
	)
}

func (s *srv) loadEndpoint() {
	s.ctx = xcontext.WithHTTPClient(s.ctx, &http.Client{Timeout: 30 * time.Second})

	s.discordEndpoint = discord.New(xcontext.Configs(s.ctx).Discord)
	s.seniorityCaller = client.NewSeniorityCaller(
		xcontext.Configs(s.ctx).Seniority.URL,
		api.NewGenerator(),
	)
}

func (s *srv) loadDomains() {
	s.roleAdminDomain = domain.NewRoleAdminDomain(
		s.securityStore,
		s.rankResolver,
		s.discordEndpoint,
		s.seniorityCaller,
	)
}

func (s *srv) migrate(cliCtx *cli.Context) error {
	s.loadConfig(cliCtx)
	s.loadLogger()
	s.loadDatabase()

	return migration.Migrate(s.ctx)
}

func (s *srv) reloadSecurity(cliCtx *cli.Context) error {
	s.loadConfig(cliCtx)
	s.loadLogger()
	s.loadDatabase()
	s.loadRepos()

	s.securityStore = common.NewSecurityStore(s.guildRepo, s.userAccessRepo)
	if err := s.securityStore.Load(s.ctx); err != nil {
		return err
	}

	xcontext.Logger(s.ctx).Infof("Reloaded security lists")
	return nil
}
