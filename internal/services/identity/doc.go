// Package identity owns accounts, passwords, email confirmation and sessions.
//
// Other services reach it through Service; the web app uses it to sign users up
// and to turn an access token back into the signed-in account.
package identity
