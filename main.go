package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/roysitumorang/raket/config"
	"github.com/roysitumorang/raket/helper"
	"github.com/roysitumorang/raket/keys"
	"github.com/roysitumorang/raket/models"
	userModel "github.com/roysitumorang/raket/modules/user/model"
	"github.com/roysitumorang/raket/router"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func bootstrap(ctx context.Context, ctxt string) (*router.Service, error) {
	if err := godotenv.Load(".env"); err != nil {
		helper.Capture(ctx, zap.ErrorLevel, err, ctxt, "ErrLoad")
		return nil, err
	}
	if err := helper.InitHelper(); err != nil {
		helper.Capture(ctx, zap.ErrorLevel, err, ctxt, "ErrInitHelper")
		return nil, err
	}
	service, err := router.MakeHandler(ctx)
	if err != nil {
		helper.Capture(ctx, zap.ErrorLevel, err, ctxt, "ErrMakeHandler")
		return nil, err
	}
	helper.InitDbWrite(service.DbWrite)
	return service, nil
}

func accessTokenAge() (time.Duration, error) {
	envAccessTokenAge, ok := os.LookupEnv("ACCESS_TOKEN_AGE")
	if !ok || envAccessTokenAge == "" {
		return 0, errors.New("env ACCESS_TOKEN_AGE is required")
	}
	return time.ParseDuration(envAccessTokenAge)
}

func main() {
	ctxt := "Main"
	ctx := context.Background()
	helper.InitLogger()
	cmdVersion := &cobra.Command{
		Use:   "version",
		Short: "print version",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("Version: %s\nCommit: %s\nBuild: %s\n", config.Version, config.Commit, config.Build)
		},
	}
	cmdRun := &cobra.Command{
		Use:   "run",
		Short: "run app",
		Run: func(_ *cobra.Command, _ []string) {
			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()
			service, err := bootstrap(ctx, ctxt)
			if err != nil {
				return
			}
			defer service.Close()
			if err := service.Migration.Migrate(ctx); err != nil {
				helper.Capture(ctx, zap.ErrorLevel, err, ctxt, "ErrMigrate")
				return
			}
			g, ctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				return service.HTTPServerMain(ctx)
			})
			g.Go(func() error {
				// make sure the topic exists before subscribing
				err := service.NsqProducer.Publish(ctx, config.TopicTransaction, models.Message{})
				if err != nil {
					helper.Log(ctx, zap.ErrorLevel, err.Error(), ctxt, "ErrPublish")
					return err
				}
				if err = service.TransactionUseCase.ConsumeMessage(ctx); err != nil {
					helper.Log(ctx, zap.ErrorLevel, err.Error(), ctxt, "ErrConsumeMessage")
				}
				return err
			})
			g.Go(func() error {
				c := cron.New(cron.WithChain(
					cron.Recover(cron.DefaultLogger),
				))
				// run every minute
				entryID, err := c.AddFunc("* * * * *", func() {
					rowsAffected, err := service.JwtUseCase.DeleteExpiredJWTs(ctx)
					if err != nil {
						helper.Log(ctx, zap.ErrorLevel, err.Error(), ctxt, "ErrDeleteExpiredJWTs")
						return
					}
					if rowsAffected > 0 {
						helper.Log(ctx, zap.InfoLevel, fmt.Sprintf("%d expired JWTs deleted", rowsAffected), ctxt, "")
					}
				})
				if err != nil {
					helper.Capture(ctx, zap.ErrorLevel, err, ctxt, "ErrAddFunc")
					return err
				}
				helper.Log(ctx, zap.InfoLevel, fmt.Sprintf("cron: entry added with ID %d", entryID), ctxt, "")
				c.Start()
				<-ctx.Done()
				<-c.Stop().Done()
				return nil
			})
			if err := g.Wait(); err != nil {
				helper.Capture(ctx, zap.ErrorLevel, err, ctxt, "ErrWait")
			}
		},
	}
	cmdMigration := &cobra.Command{
		Use:   "migration",
		Short: "new/run migration",
		Args: func(_ *cobra.Command, args []string) (err error) {
			if len(args) == 0 {
				err = errors.New("requires at least 1 arg (new|run)")
				return
			}
			if args[0] != "new" && args[0] != "run" {
				err = fmt.Errorf("invalid first flag specified: %s", args[0])
			}
			return
		},
		Run: func(_ *cobra.Command, args []string) {
			now := time.Now()
			service, err := bootstrap(ctx, ctxt)
			if err != nil {
				return
			}
			defer service.Close()
			var activity string
			switch args[0] {
			case "new":
				if err := service.Migration.CreateMigrationFile(ctx); err != nil {
					helper.Capture(ctx, zap.ErrorLevel, err, ctxt, "ErrCreateMigrationFile")
					return
				}
				activity = "creating"
			case "run":
				if err := service.Migration.Migrate(ctx); err != nil {
					helper.Capture(ctx, zap.ErrorLevel, err, ctxt, "ErrMigrate")
					return
				}
				activity = "running"
			}
			duration := time.Since(now)
			helper.Log(ctx, zap.InfoLevel, fmt.Sprintf("%s migration successfully in %s", activity, duration.String()), ctxt, "")
		},
	}
	cmdToken := &cobra.Command{
		Use:   "token <user-id>",
		Short: "issue an access token for a user",
		Args:  cobra.ExactArgs(1),
		Run: func(_ *cobra.Command, args []string) {
			service, err := bootstrap(ctx, ctxt)
			if err != nil {
				return
			}
			defer service.Close()
			userID, err := helper.NormalizeUUID(args[0])
			if err != nil {
				helper.Log(ctx, zap.ErrorLevel, err.Error(), ctxt, "ErrNormalizeUUID")
				return
			}
			user, err := service.UserUseCase.FindUserByID(ctx, nil, userID)
			if err != nil {
				return
			}
			if user == nil {
				helper.Log(ctx, zap.ErrorLevel, userModel.ErrUserNotFound.Error(), ctxt, "ErrUserNotFound")
				return
			}
			privateKey, err := keys.InitPrivateKey()
			if err != nil {
				helper.Capture(ctx, zap.ErrorLevel, err, ctxt, "ErrInitPrivateKey")
				return
			}
			age, err := accessTokenAge()
			if err != nil {
				helper.Capture(ctx, zap.ErrorLevel, err, ctxt, "ErrAccessTokenAge")
				return
			}
			tx, err := helper.BeginTx(ctx)
			if err != nil {
				return
			}
			defer helper.Rollback(ctx, tx, ctxt)
			accessToken, jsonWebToken, err := service.JwtUseCase.IssueJWT(ctx, tx, user.ID, age, privateKey)
			if err != nil {
				return
			}
			if err = tx.Commit(ctx); err != nil {
				helper.Capture(ctx, zap.ErrorLevel, err, ctxt, "ErrCommit")
				return
			}
			fmt.Printf("Token ID: %s\nExpires: %s\nAccess token: %s\n", jsonWebToken.ID, jsonWebToken.ExpiredAt.Format(time.RFC3339), accessToken)
		},
	}
	rootCmd := &cobra.Command{Use: config.AppName}
	rootCmd.AddCommand(
		cmdVersion,
		cmdRun,
		cmdMigration,
		cmdToken,
	)
	rootCmd.SuggestionsMinimumDistance = 1
	if err := rootCmd.Execute(); err != nil {
		helper.Capture(ctx, zap.ErrorLevel, err, ctxt, "ErrExecute")
	}
}
