package datarecording

// Compile-time checks that the SQLite implementations satisfy the package
// interfaces.

var _ DataRecorder = (*sqliteRecorder)(nil)
var _ DataReader = (*sqliteReader)(nil)
