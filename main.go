package main

import (
	"flag"
	"log/slog"
	"os"

	"vidtube/auth"
	"vidtube/crud"
	"vidtube/http"
	"vidtube/storage"
)

// main is the app's entry point.
func main() {
	// Check if the flag "-prod" has been provided. It means that we're running in production.
	productionBool := flag.Bool("prod", false, "Provide this flag in production to ensure that a .config.json file is provided before the application starts.")
	flag.Parse()

	// Load configuration from a .config.json file if present, otherwise use the default dev setup.
	config := LoadConfig(*productionBool)
	initLogger(config.LogLevel)

	// Open a database connection and execute migrations.
	db := NewDB(config.Database.ConnectionInfo())
	err := Open(db, config.IsProd())
	must(err)
	defer Close(db)
	err = AutoMigrate(db)
	must(err)

	// Start the crud services.
	services, err := crud.NewServices(
		db.Gorm,
		crud.WithUser(config.Pepper),
		crud.WithVideo(),
		crud.WithComment(),
		crud.WithTweet(),
		crud.WithPlaylist(),
		crud.WithLike(),
		crud.WithSubscription(),
		crud.WithView(),
	)
	must(err)

	// Connect to the object store holding the raw media assets.
	assets, err := storage.NewAssetService(
		config.ObjectStore.Endpoint,
		config.ObjectStore.AccessKey,
		config.ObjectStore.SecretKey,
		config.ObjectStore.Bucket,
		config.ObjectStore.PublicURL,
		config.ObjectStore.UseSSL,
	)
	must(err)

	// Set up the session token manager.
	tokens := auth.NewTokenManager(
		config.JWT.AccessSecret,
		config.JWT.RefreshSecret,
		config.JWT.AccessTTL(),
		config.JWT.RefreshTTL(),
	)

	// Set up a webserver and serve the app.
	server := http.NewServer(services, assets, tokens)
	must(server.Run(config.Port))
}

// initLogger installs a json slog handler at the configured level as the
// process-wide default.
func initLogger(level string) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(handler))
}

// must is a little helper for shortening the panic instruction.
func must(err error) {
	if err != nil {
		panic(err)
	}
}
