package mocks

//go:generate mockgen -destination=./mock_provider.go -package=mocks github.com/rxtech-lab/argo-dataprep/pkg/marketdata/provider Provider
//go:generate mockgen -destination=./mock_fetcher.go -package=mocks github.com/rxtech-lab/argo-dataprep/pkg/marketdata Fetcher
//go:generate mockgen -destination=./mock_sink.go -package=mocks github.com/rxtech-lab/argo-dataprep/pkg/sink Sink
