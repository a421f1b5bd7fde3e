// Package mail sends email messages over SMTP.
package mail
