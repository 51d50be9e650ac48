package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	osSignal "os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/assist-by/relay/internal/config"
	"github.com/assist-by/relay/internal/exchange/bingx"
	"github.com/assist-by/relay/internal/notification"
	"github.com/assist-by/relay/internal/notification/discord"
	"github.com/assist-by/relay/internal/position"
	"github.com/assist-by/relay/internal/server"
	"github.com/assist-by/relay/internal/trader"
	"github.com/assist-by/relay/pkg/logger"
)

func main() {
	// 설정 로드
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "설정 로드 실패: %v\n", err)
		os.Exit(1)
	}

	// 로거 초기화
	logger.Init(cfg.Server.Debug)
	defer logger.Sync()

	logger.Info("트레이딩 웹훅 릴레이 시작",
		zap.Int("port", cfg.Server.Port),
		zap.String("fundingAsset", cfg.Trading.FundingAsset))

	// API 키 부재는 기동을 막지 않습니다 (거래 시점에 NotConfigured로 처리)
	if !cfg.HasCredentials() {
		logger.Warn("API 키가 설정되지 않았습니다. 환경변수를 확인하세요")
	}

	// BingX 클라이언트 생성
	client := bingx.NewClient(
		cfg.BingX.APIKey,
		cfg.BingX.SecretKey,
		bingx.WithTimeout(10*time.Second),
	)

	// 컨텍스트 생성
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 서버 시간 동기화 (실패해도 로컬 시간으로 진행)
	if cfg.HasCredentials() {
		if err := client.SyncTime(ctx); err != nil {
			logger.Warn("서버 시간 동기화 실패", zap.Error(err))
		}
	}

	// Discord 알림 클라이언트 생성 (웹훅 URL이 설정된 경우에만)
	var notifier notification.Notifier
	if cfg.Discord.TradeWebhook != "" || cfg.Discord.ErrorWebhook != "" {
		notifier = discord.NewClient(
			cfg.Discord.TradeWebhook,
			cfg.Discord.ErrorWebhook,
			discord.WithTimeout(10*time.Second),
		)
	}

	// 포지션 원장과 트레이더 생성
	ledger := position.NewLedger(client)
	t := trader.New(cfg, client, ledger, notifier)

	// HTTP 서버 기동
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: server.New(t).Router(),
	}

	go func() {
		logger.Info("웹훅 서버 수신 대기", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("웹훅 서버 실행 실패", zap.Error(err))
		}
	}()

	// 종료 시그널 대기
	sigCh := make(chan os.Signal, 1)
	osSignal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Info("종료 시그널 수신, 서버를 정리합니다")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("서버 종료 실패", zap.Error(err))
	}

	logger.Info("트레이딩 웹훅 릴레이 종료")
}
