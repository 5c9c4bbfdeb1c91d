package index

// ArticleIndex defines the interface for article search operations.
// Consumers should depend on this interface rather than the concrete *DB
// type to facilitate testing with mocks.
type ArticleIndex interface {
	UpsertArticle(a ArticleRow, body string) error
	DeleteArticle(filename string) error
	GetChecksum(filename string) (string, error)
	AllChecksums() (map[string]string, error)
	Search(query string, limit int) ([]SearchResult, error)
	Close() error
}

// Verify *DB satisfies ArticleIndex at compile time.
var _ ArticleIndex = (*DB)(nil)
