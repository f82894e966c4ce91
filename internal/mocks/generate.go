package mocks

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name StatsFetcher --dir ../usecase --output usecase --outpkg usecasemock --filename stats_fetcher_mock.go
