package dbdriver

// OpenFake opens an in-memory SQLite database for tests: same driver,
// same pragmas, no file left on disk. internal/clock.Fake pairs with
// this to make create_time/last_update_time assertions deterministic.
func OpenFake() (*SQLiteDriver, error) {
	return OpenSQLite(":memory:")
}
