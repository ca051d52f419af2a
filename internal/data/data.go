package data

import (
	"context"
	"fmt"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"smartquiz/internal/conf"
	"smartquiz/internal/model"
	"smartquiz/internal/storage"
)

// Data holds every backing-store handle the services need.
type Data struct {
	DB    *gorm.DB
	Redis *redis.Client
	Store storage.ObjectStore
}

func NewData(cfg *conf.Config) (*Data, func(), error) {
	// 1. Postgres + auto migration
	db, err := gorm.Open(postgres.Open(cfg.Data.DatabaseSource), &gorm.Config{})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.AutoMigrate(
		&model.User{},
		&model.Class{},
		&model.ClassStudent{},
		&model.Exam{},
		&model.ExamResult{},
		&model.ExamClassAssignment{},
		&model.Topic{},
		&model.Resource{},
	); err != nil {
		return nil, nil, fmt.Errorf("schema migration failed: %w", err)
	}
	logrus.Info("✅ database schema migrated")

	// 2. Redis (exam traffic counters)
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Data.RedisAddr,
		Password: cfg.Data.RedisPassword,
	})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, nil, fmt.Errorf("redis connection failed: %w", err)
	}
	logrus.Info("✅ redis connected")

	// 3. MinIO + bucket bootstrap
	minioClient, err := minio.New(cfg.Data.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.Data.MinioAccessKey, cfg.Data.MinioSecretKey, ""),
		Secure: cfg.Data.MinioUseSSL,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("minio init failed: %w", err)
	}

	bucket := cfg.Data.MinioBucket
	exists, err := minioClient.BucketExists(context.Background(), bucket)
	if err != nil {
		return nil, nil, fmt.Errorf("minio bucket check failed: %w", err)
	}
	if !exists {
		if err := minioClient.MakeBucket(context.Background(), bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, nil, fmt.Errorf("minio bucket create failed: %w", err)
		}
		// Public-read policy so uploaded resources are reachable by URL.
		policy := fmt.Sprintf(`{"Version":"2012-10-17","Statement":[{"Effect":"Allow","Principal":{"AWS":["*"]},"Action":["s3:GetObject"],"Resource":["arn:aws:s3:::%s/*"]}]}`, bucket)
		if err := minioClient.SetBucketPolicy(context.Background(), bucket, policy); err != nil {
			logrus.WithError(err).Warn("failed to set public-read bucket policy")
		}
		logrus.Infof("🎉 minio bucket %q created", bucket)
	}
	logrus.Infof("✅ minio connected (bucket %q)", bucket)

	d := &Data{
		DB:    db,
		Redis: rdb,
		Store: storage.NewMinioStore(minioClient, bucket, cfg.Data.MinioUseSSL),
	}

	cleanup := func() {
		logrus.Info("closing data layer resources...")
		if sqlDB, err := d.DB.DB(); err == nil {
			sqlDB.Close()
		}
		d.Redis.Close()
	}

	return d, cleanup, nil
}
