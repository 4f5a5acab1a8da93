// Package security resolves the credential bundle of a secure endpoint from a
// directory of well known file names. Each attribute has an ordered list of
// candidate files; the first candidate that resolves wins, and a missing
// mandatory attribute fails the whole resolution.
package security
