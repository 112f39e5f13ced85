package main

import (
	"context"
	"encoding/json"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"github.com/Livo-Africa/accountbot/config"
	"github.com/Livo-Africa/accountbot/internal/engine"
	"github.com/Livo-Africa/accountbot/internal/telegram"
	"github.com/Livo-Africa/accountbot/pkg/tabular"
)

var (
	bot *telegram.Bot
	log zerolog.Logger
)

func init() {
	log = zerolog.New(os.Stdout).With().Timestamp().Logger()

	conf, err := config.Load("")
	if err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}
	// No durable disk in Lambda; Dynamo unless explicitly overridden.
	if os.Getenv("ACCOUNTBOT_STORE") == "" {
		conf.Store.Backend = "dynamo"
	}
	store, err := tabular.NewStore(context.Background(), tabular.Options{
		Backend:     conf.Store.Backend,
		BoltPath:    conf.Store.Path,
		DynamoTable: conf.Store.DynamoTable,
		Region:      conf.Store.Region,
		Endpoint:    conf.Store.Endpoint,
	})
	if err != nil {
		log.Fatal().Err(err).Str("backend", conf.Store.Backend).Msg("store open failed")
	}
	eng := engine.New(engine.Options{
		Store:    store,
		Logger:   log,
		Currency: conf.Currency,
	})
	bot, err = telegram.New(conf.Telegram.Token, conf.Telegram.Username, eng, log)
	if err != nil {
		log.Fatal().Err(err).Msg("telegram auth failed")
	}
}

// handleRequest processes one webhook delivery. Telegram retries non-200
// responses, so the answer is always 200 no matter what happened inside.
func handleRequest(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	var update tgbotapi.Update
	if err := json.Unmarshal([]byte(req.Body), &update); err != nil {
		log.Warn().Err(err).Msg("undecodable update body")
		return ok(), nil
	}
	bot.HandleUpdate(ctx, update)
	return ok(), nil
}

func ok() events.APIGatewayProxyResponse {
	return events.APIGatewayProxyResponse{
		StatusCode: 200,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       `{"status":"ok"}`,
	}
}

func main() {
	lambda.Start(handleRequest)
}
