// Package testutil holds helpers shared by the unit tests: a console logger, temporary files and JSON requests.
package testutil
