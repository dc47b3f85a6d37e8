package es

import (
	"context"
	"fmt"
	"io"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/Skotchmaster/online_shopping/pkg/config"
	"github.com/Skotchmaster/online_shopping/pkg/logging"
)

// NewClient connects to Elasticsearch and checks the cluster answers.
func NewClient(ctx context.Context, cfg config.Config) (*elasticsearch.Client, error) {
	l := logging.FromContext(ctx).With("component", "es")
	l.Info("es_connecting", "url", cfg.ElasticURL, "user", cfg.ElasticUser)

	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{cfg.ElasticURL},
		Username:  cfg.ElasticUser,
		Password:  cfg.ElasticPassword,
	})
	if err != nil {
		return nil, fmt.Errorf("es: create client: %w", err)
	}

	res, err := client.Info(client.Info.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("es: info: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("es: info returned %s: %s", res.Status(), body)
	}

	l.Info("es_connected")
	return client, nil
}
