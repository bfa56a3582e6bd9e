package domain

import "errors"

var (
	// ErrInvalidIdentity signals a tenant identity that cannot be resolved.
	ErrInvalidIdentity = errors.New("invalid tenant identity")
	// ErrUnsupportedDocument signals content that cannot be decoded as text.
	ErrUnsupportedDocument = errors.New("unsupported document")
	// ErrEmbeddingProvider signals an embedding provider failure.
	ErrEmbeddingProvider = errors.New("embedding provider error")
	// ErrStorageWrite signals a failed write to the vector store.
	ErrStorageWrite = errors.New("storage write failed")
	// ErrNamespaceNotFound signals a namespace with no ingested content.
	ErrNamespaceNotFound = errors.New("namespace not found")
	// ErrRetrieval signals a failed similarity search.
	ErrRetrieval = errors.New("retrieval failed")
	// ErrGeneration signals a language model failure.
	ErrGeneration = errors.New("generation failed")
	// ErrLogWrite signals a failed audit log append.
	ErrLogWrite = errors.New("audit log write failed")
	// ErrInvalidCredentials signals a failed authentication attempt.
	ErrInvalidCredentials = errors.New("invalid credentials")
)
