package composite

import (
	opensearchclient "github.com/opensearch-project/opensearch-go/v2"

	"github.com/kingrain94/remote-config-api/internal/config"
	"github.com/kingrain94/remote-config-api/internal/repository"
	"github.com/kingrain94/remote-config-api/internal/repository/opensearch"
	"github.com/kingrain94/remote-config-api/internal/repository/postgres"
)

type compositeRepository struct {
	repository.PostgresRepository
	search repository.SearchRepository
}

func NewCompositeRepository(dbConnections *config.DatabaseConnections, osClient *opensearchclient.Client, osConfig *config.OpenSearchConfig) repository.Repository {
	var search repository.SearchRepository
	if osClient != nil {
		search = opensearch.NewRepository(osClient, osConfig)
	}
	return New(postgres.NewPostgresRepository(dbConnections), search)
}

// New combines a relational store with an optional search index. A nil
// search repository leaves Search() returning nil, which callers treat as
// "search disabled".
func New(pg repository.PostgresRepository, search repository.SearchRepository) repository.Repository {
	return &compositeRepository{
		PostgresRepository: pg,
		search:             search,
	}
}

func (r *compositeRepository) Search() repository.SearchRepository {
	return r.search
}
