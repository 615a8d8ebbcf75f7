package router

import "github.com/gin-gonic/gin"

// Registrar mounts one group of routes.
type Registrar interface{ Register(r *gin.Engine) }

type RegistrarFunc func(r *gin.Engine)

func (f RegistrarFunc) Register(r *gin.Engine) { f(r) }

func MountAll(r *gin.Engine, rs ...Registrar) {
	for _, x := range rs {
		x.Register(r)
	}
}
