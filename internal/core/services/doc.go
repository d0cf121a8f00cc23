// Package services contains the application core: the query observer
// that bridges a driven query controller to driving results observers.
package services
