package routes

import (
	"time"

	"Gin_postgres_redis_local_library/app"
	"Gin_postgres_redis_local_library/controllers"
	"Gin_postgres_redis_local_library/models"
	"Gin_postgres_redis_local_library/services"

	"github.com/gin-gonic/gin"
)

const seenThrottle = 5 * time.Minute

func RegisterRoutes(r *gin.Engine, a *app.App) {
	s := controllers.GetSrv(a)
	uc := controllers.GetUserController(a.Repo, a.AppSessions(), a.Config)
	inviteCtl := controllers.GetInviteController(s)
	catalog := controllers.NewCatalogController(a.Repo)
	loans := controllers.NewLoanController(
		services.NewRenewalService(a.Repo, a.Config.Location()),
		a.Repo,
	)
	index := controllers.NewIndexController(
		services.NewSummaryService(a.Repo, a.AppSessions()),
	)

	authMW := app.AuthRequired(a.AppSessions(), a.Repo)
	seenMW := app.TouchLastSeen(a.Repo, a.RDB, seenThrottle)
	adminMW := app.AdminOnly(a.Config)
	perm := permissionFor(a.Config)

	// Authentication
	auth := r.Group("/auth")
	{
		auth.POST("/login", s.Login)
		auth.POST("/logout", s.Logout)
		auth.GET("/whoami", authMW, s.WhoAmI)
	}

	wa := r.Group("/webauthn")
	{
		wa.POST("/register/begin", s.BeginRegistration)
		wa.POST("/register/finish", s.FinishRegistration)
		wa.POST("/login/begin", s.BeginLogin)
		wa.POST("/login/finish", s.FinishLogin)
	}

	me := r.Group("/api", authMW, seenMW)
	{
		me.POST("/credentials/add/begin", s.BeginAddCredential)
		me.POST("/credentials/add/finish", s.FinishAddCredential)
		me.PUT("/me/password", s.SetPassword)
	}

	// Administration
	admin := r.Group("/admin", authMW, adminMW)
	{
		admin.POST("/invites", inviteCtl.CreateInvite)
	}

	users := r.Group("/api/users", authMW, adminMW)
	{
		users.GET("", uc.ListUsers) // ?q=&page=&size=
		users.GET("/:id", uc.GetUser)
		users.DELETE("/:id", uc.DeleteUser)
		users.PUT("/:id/permissions", uc.SetPermissions)
	}
	r.GET("/api/permissions", authMW, adminMW, uc.ListPermissions)

	// Catalog
	cat := r.Group("/api/catalog", authMW, seenMW)
	{
		cat.GET("/", index.Index)

		mountLoans(cat, perm, loans)

		crud(cat, "/authors", models.ModelAuthor, perm, resource{
			list: catalog.ListAuthors, get: catalog.GetAuthor,
			create: catalog.CreateAuthor, update: catalog.UpdateAuthor, remove: catalog.DeleteAuthor,
		})
		crud(cat, "/genres", models.ModelGenre, perm, resource{
			list: catalog.ListGenres, get: catalog.GetGenre,
			create: catalog.CreateGenre, update: catalog.UpdateGenre, remove: catalog.DeleteGenre,
		})
		crud(cat, "/languages", models.ModelLanguage, perm, resource{
			list: catalog.ListLanguages, get: catalog.GetLanguage,
			create: catalog.CreateLanguage, update: catalog.UpdateLanguage, remove: catalog.DeleteLanguage,
		})
		crud(cat, "/books", models.ModelBook, perm, resource{
			list: catalog.ListBooks, get: catalog.GetBook,
			create: catalog.CreateBook, update: catalog.UpdateBook, remove: catalog.DeleteBook,
		})
		crud(cat, "/instances", models.ModelBookInstance, perm, resource{
			list: catalog.ListInstances, get: catalog.GetInstance,
			create: catalog.CreateInstance, update: catalog.UpdateInstance, remove: catalog.DeleteInstance,
		})
	}
}

func permissionFor(cfg app.Config) func(string) gin.HandlerFunc {
	return func(p string) gin.HandlerFunc { return app.PermissionRequired(cfg, p) }
}

// mountLoans adds the borrowed lists and the renewal form. Everything but the
// caller's own loans needs catalog.can_mark_returned, checked before the
// handler reads anything.
func mountLoans(cat *gin.RouterGroup, perm func(string) gin.HandlerFunc, loans *controllers.LoanController) {
	cat.GET("/mybooks", loans.MyBorrowed)
	marker := perm(models.PermCanMarkReturned)
	cat.GET("/borrowed", marker, loans.AllBorrowed)
	cat.GET("/book/:id/renew", marker, loans.RenewForm)
	cat.POST("/book/:id/renew", marker, loans.Renew)
}

type resource struct {
	list, get, create, update, remove gin.HandlerFunc
}

// crud mounts the five catalog endpoints of one model. Reads only need a
// login; writes need the model's add/change/delete permission.
func crud(g *gin.RouterGroup, path, model string, perm func(string) gin.HandlerFunc, h resource) {
	rg := g.Group(path)
	rg.GET("", h.list)
	rg.GET("/:id", h.get)
	rg.POST("", perm(models.PermAdd(model)), h.create)
	rg.PUT("/:id", perm(models.PermChange(model)), h.update)
	rg.DELETE("/:id", perm(models.PermDelete(model)), h.remove)
}
