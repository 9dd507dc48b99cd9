package archive

import (
	"context"
	"medreport-service/internal/app/contracts"
	"medreport-service/internal/app/models"
	"medreport-service/internal/pkg/constvars"
	"medreport-service/internal/pkg/exceptions"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

type ReportMongoArchive struct {
	Collection *mongo.Collection
	Log        *zap.Logger
}

// NewReportMongoArchive keeps every finalized report keyed by report_id.
func NewReportMongoArchive(db *mongo.Client, dbName, collection string, logger *zap.Logger) contracts.ReportArchive {
	if collection == "" {
		collection = constvars.MongoCollectionFinalReports
	}
	return &ReportMongoArchive{
		Collection: db.Database(dbName).Collection(collection),
		Log:        logger,
	}
}

func (repo *ReportMongoArchive) Upsert(ctx context.Context, report *models.ReportRecord) error {
	filter := bson.M{"report_id": report.ReportID}
	opts := options.Replace().SetUpsert(true)

	_, err := repo.Collection.ReplaceOne(ctx, filter, report, opts)
	if err != nil {
		repo.Log.Error("ReportMongoArchive.Upsert error replacing document",
			zap.String(constvars.LoggingReportIDKey, report.ReportID),
			zap.Error(err),
		)
		return exceptions.ErrMongoDBUpsertDocument(err)
	}
	return nil
}

func (repo *ReportMongoArchive) FindByPatientID(ctx context.Context, patientID string) ([]models.ReportRecord, error) {
	filter := bson.M{"patient_info.patient_id": patientID}
	opts := options.Find().SetSort(bson.D{{Key: "approved_at", Value: -1}})

	cursor, err := repo.Collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	defer cursor.Close(ctx)

	reports := make([]models.ReportRecord, 0)
	if err := cursor.All(ctx, &reports); err != nil {
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	return reports, nil
}
