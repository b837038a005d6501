// Package controllers holds the gin handlers of the burger API
package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/franciscosanchezn/gin-burger-constructor/internal/models"
)

var log = logrus.New()

func init() {
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(logrus.InfoLevel)
}

// SetLogger replaces the package logger
func SetLogger(l *logrus.Logger) {
	log = l
}

func respondError(ctx *gin.Context, status int, message string) {
	ctx.JSON(status, models.NewErrorResponse(message))
}
