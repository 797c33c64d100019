// Package testinfra starts the Postgres, Redis and MailHog containers the
// integration tests run against.
package testinfra

import (
	"context"
	"fmt"
	"testing"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/modules/redis"
	"github.com/testcontainers/testcontainers-go/wait"
)

type Infra struct {
	Postgres *postgres.PostgresContainer
	Redis    *redis.RedisContainer
	MailHog  testcontainers.Container

	PgURL       string
	RedisURL    string
	MailhogURL  string
	MailhogHost string
	MailhogPort int
}

// Options picks the optional containers.
type Options struct {
	MailHog bool
}

func StartInfra(ctx context.Context, t *testing.T, opts Options) (*Infra, error) {
	t.Log("Starting PostgreSQL container...")
	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("studychannel_test"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start postgres: %w", err)
	}

	infra := &Infra{Postgres: pgContainer}

	infra.PgURL, err = pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = infra.Terminate(ctx, t)
		return nil, fmt.Errorf("failed to get postgres connection string: %w", err)
	}

	t.Log("Starting Redis container...")
	redisContainer, err := redis.Run(ctx,
		"redis:7-alpine",
		testcontainers.WithWaitStrategy(
			wait.ForLog("Ready to accept connections"),
		),
	)
	if err != nil {
		_ = infra.Terminate(ctx, t)
		return nil, fmt.Errorf("failed to start redis: %w", err)
	}
	infra.Redis = redisContainer

	redisHost, err := redisContainer.Host(ctx)
	if err != nil {
		_ = infra.Terminate(ctx, t)
		return nil, fmt.Errorf("failed to get redis host: %w", err)
	}

	redisPort, err := redisContainer.MappedPort(ctx, "6379")
	if err != nil {
		_ = infra.Terminate(ctx, t)
		return nil, fmt.Errorf("failed to get redis port: %w", err)
	}
	infra.RedisURL = fmt.Sprintf("%s:%s", redisHost, redisPort.Port())

	if !opts.MailHog {
		return infra, nil
	}

	t.Log("Starting MailHog container...")
	mailhogContainer, err := testcontainers.GenericContainer(ctx,
		testcontainers.GenericContainerRequest{
			ContainerRequest: testcontainers.ContainerRequest{
				Image:        "mailhog/mailhog:latest",
				ExposedPorts: []string{"1025/tcp", "8025/tcp"},
				WaitingFor:   wait.ForListeningPort("1025/tcp"),
			},
			Started: true,
		},
	)
	if err != nil {
		_ = infra.Terminate(ctx, t)
		return nil, fmt.Errorf("failed to start mailhog: %w", err)
	}
	infra.MailHog = mailhogContainer

	mailhogHost, err := mailhogContainer.Host(ctx)
	if err != nil {
		_ = infra.Terminate(ctx, t)
		return nil, fmt.Errorf("failed to get mailhog host: %w", err)
	}

	apiPort, err := mailhogContainer.MappedPort(ctx, "8025")
	if err != nil {
		_ = infra.Terminate(ctx, t)
		return nil, fmt.Errorf("failed to get mailhog API port: %w", err)
	}

	smtpPort, err := mailhogContainer.MappedPort(ctx, "1025")
	if err != nil {
		_ = infra.Terminate(ctx, t)
		return nil, fmt.Errorf("failed to get mailhog SMTP port: %w", err)
	}

	infra.MailhogURL = fmt.Sprintf("http://%s:%s", mailhogHost, apiPort.Port())
	infra.MailhogHost = mailhogHost
	infra.MailhogPort = smtpPort.Int()

	return infra, nil
}

func (infra *Infra) Terminate(ctx context.Context, t *testing.T) error {
	t.Log("Terminating test infrastructure...")

	containers := []testcontainers.Container{}
	if infra.Postgres != nil {
		containers = append(containers, infra.Postgres)
	}
	if infra.Redis != nil {
		containers = append(containers, infra.Redis)
	}
	if infra.MailHog != nil {
		containers = append(containers, infra.MailHog)
	}

	for _, c := range containers {
		if err := c.Terminate(ctx); err != nil {
			return fmt.Errorf("failed to terminate container: %w", err)
		}
	}

	return nil
}
