package db

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"

	"cloud.google.com/go/firestore"
	gcs "cloud.google.com/go/storage"
	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"platefull-backend-go/internal/config"
)

var (
	// fsClient is the process-wide Firestore client.
	fsClient *firestore.Client
	// fbAuthClient is the process-wide Firebase Auth client.
	fbAuthClient *auth.Client
	// bucket is the default Cloud Storage for Firebase bucket.
	bucket *gcs.BucketHandle
)

// InitFirebase builds the Firebase app once from static configuration and
// sets up the Firestore, Auth and Storage clients shared by the process.
func InitFirebase(ctx context.Context, appConfig *config.Config, logger *zap.Logger) error {
	if appConfig == nil {
		return errors.New("InitFirebase: appConfig cannot be nil")
	}

	var opts []option.ClientOption
	switch {
	case appConfig.GoogleApplicationCredentials != "":
		if _, err := os.Stat(appConfig.GoogleApplicationCredentials); os.IsNotExist(err) {
			logger.Warn("credentials file does not exist, falling back to SDK discovery",
				zap.String("path", appConfig.GoogleApplicationCredentials))
		}
		logger.Info("Initializing Firebase with credentials file", zap.String("path", appConfig.GoogleApplicationCredentials))
		opts = append(opts, option.WithCredentialsFile(appConfig.GoogleApplicationCredentials))
	case appConfig.FirebaseServiceAccountJSONBase64 != "":
		decodedJSON, err := base64.StdEncoding.DecodeString(appConfig.FirebaseServiceAccountJSONBase64)
		if err != nil {
			return fmt.Errorf("failed to decode FIREBASE_SERVICE_ACCOUNT_JSON_BASE64: %w", err)
		}
		logger.Info("Initializing Firebase with Base64 encoded service account JSON")
		opts = append(opts, option.WithCredentialsJSON(decodedJSON))
	default:
		// GCE, Cloud Run and friends provide Application Default Credentials.
		logger.Info("Initializing Firebase using Application Default Credentials")
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{
		ProjectID:     appConfig.FirebaseProjectID,
		StorageBucket: appConfig.FirebaseStorageBucket,
	}, opts...)
	if err != nil {
		return fmt.Errorf("firebase.NewApp: %w", err)
	}

	client, err := app.Firestore(ctx)
	if err != nil {
		return fmt.Errorf("app.Firestore: %w", err)
	}

	authCl, err := app.Auth(ctx)
	if err != nil {
		client.Close()
		return fmt.Errorf("app.Auth: %w", err)
	}

	storageCl, err := app.Storage(ctx)
	if err != nil {
		client.Close()
		return fmt.Errorf("app.Storage: %w", err)
	}
	bkt, err := storageCl.DefaultBucket()
	if err != nil {
		client.Close()
		return fmt.Errorf("storage default bucket: %w", err)
	}

	fsClient = client
	fbAuthClient = authCl
	bucket = bkt
	logger.Info("Firebase clients initialized",
		zap.String("projectID", appConfig.FirebaseProjectID),
		zap.String("bucket", appConfig.FirebaseStorageBucket))
	return nil
}

// GetFirestoreClient returns the shared Firestore client. It panics if
// InitFirebase has not succeeded.
func GetFirestoreClient() *firestore.Client {
	if fsClient == nil {
		panic("firestore client not initialized; call InitFirebase first")
	}
	return fsClient
}

// GetFirebaseAuthClient returns the shared Firebase Auth client.
func GetFirebaseAuthClient() *auth.Client {
	if fbAuthClient == nil {
		panic("firebase auth client not initialized; call InitFirebase first")
	}
	return fbAuthClient
}

// GetStorageBucket returns the default Cloud Storage for Firebase bucket.
func GetStorageBucket() *gcs.BucketHandle {
	if bucket == nil {
		panic("storage bucket not initialized; call InitFirebase first")
	}
	return bucket
}

// Close releases the Firestore connection. Call once at process exit.
func Close() error {
	if fsClient == nil {
		return nil
	}
	err := fsClient.Close()
	fsClient = nil
	return err
}
