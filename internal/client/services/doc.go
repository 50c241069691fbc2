// Package services contains the application services of the Keijiban
// client: board synchronization, word-image ingestion, phrase composition
// and reading or posting board entries.
//
// Services own transaction boundaries. Repositories are obtained from a
// repomanager.RepositoryManager and bound either to the database or to the
// *sql.Tx of a dbx.WithTx call. Gateway and recognizer calls never happen
// inside a transaction.
//
// Failures are reported with the sentinels of internal/common: a returned
// error aborts the whole operation, while IngestBatch reports items it had
// to skip in BatchResult.Failed.
package services
