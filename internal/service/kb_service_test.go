package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartquiz/internal/dto"
	"smartquiz/internal/model"
)

func newKBFixture(t *testing.T) (*KBService, *SmartUploadService, *fakeStore) {
	t.Helper()
	db := newTestDB(t)
	store := newFakeStore()
	return NewKBService(db, store), NewSmartUploadService(db, store, nil), store
}

func TestKBCreateTopic(t *testing.T) {
	kb, _, _ := newKBFixture(t)

	topic, err := kb.CreateTopic(dto.TopicReq{Name: "Kinh Tế Vi Mô", Category: "Kinh Tế"})
	require.NoError(t, err)
	assert.Equal(t, "kinh-te-vi-mo", topic.Slug)
	assert.Equal(t, "kinh-te", topic.CategorySlug)

	_, err = kb.CreateTopic(dto.TopicReq{Name: "Kinh Tế Vi Mô"})
	assert.Error(t, err, "duplicate slug must be rejected")

	_, err = kb.CreateTopic(dto.TopicReq{Name: "!!!"})
	assert.EqualError(t, err, "tên topic không hợp lệ")
}

func TestKBDeleteTopicRemovesObjects(t *testing.T) {
	kb, uploads, store := newKBFixture(t)

	result, err := uploads.ManualUpload(context.Background(), []byte("x"), "bai.pdf", "Kinh Tế Vi Mô", "Kinh Tế", "application/pdf", "u-1")
	require.NoError(t, err)
	require.Len(t, store.objects, 1)

	require.NoError(t, kb.DeleteTopic(context.Background(), result.Topic.ID))

	assert.Empty(t, store.objects)
	var topics, resources int64
	uploads.DB.Model(&model.Topic{}).Count(&topics)
	uploads.DB.Model(&model.Resource{}).Count(&resources)
	assert.EqualValues(t, 0, topics)
	assert.EqualValues(t, 0, resources)
}

func TestKBListResourcesCarriesTopicName(t *testing.T) {
	kb, uploads, _ := newKBFixture(t)

	_, err := uploads.ManualUpload(context.Background(), []byte("x"), "bai.pdf", "Kinh Tế Vi Mô", "Kinh Tế", "application/pdf", "u-1")
	require.NoError(t, err)

	resources, err := kb.ListResources("")
	require.NoError(t, err)
	require.Len(t, resources, 1)
	assert.Equal(t, "Kinh Tế Vi Mô", resources[0].TopicName)
	assert.Equal(t, "kinh-te/kinh-te-vi-mo/bai.pdf", resources[0].S3Key)
}

func TestKBDeleteResource(t *testing.T) {
	kb, uploads, store := newKBFixture(t)

	result, err := uploads.ManualUpload(context.Background(), []byte("x"), "bai.pdf", "Kinh Tế Vi Mô", "Kinh Tế", "application/pdf", "u-1")
	require.NoError(t, err)

	require.NoError(t, kb.DeleteResource(context.Background(), result.Resource.ID))
	assert.Empty(t, store.objects)

	err = kb.DeleteResource(context.Background(), result.Resource.ID)
	assert.EqualError(t, err, "không tìm thấy file")
}

func TestKBListFolders(t *testing.T) {
	kb, uploads, _ := newKBFixture(t)

	_, err := uploads.ManualUpload(context.Background(), []byte("x"), "a.pdf", "Kinh Tế Vi Mô", "Kinh Tế", "application/pdf", "u-1")
	require.NoError(t, err)
	_, err = uploads.ManualUpload(context.Background(), []byte("y"), "b.pdf", "Giải Tích", "Toán học", "application/pdf", "u-1")
	require.NoError(t, err)

	folders, err := kb.ListFolders(context.Background())
	require.NoError(t, err)
	assert.Len(t, folders, 2)
	assert.Len(t, folders["kinh-te"], 1)
	assert.Len(t, folders["toan-hoc"], 1)
}

func TestKBStats(t *testing.T) {
	kb, uploads, _ := newKBFixture(t)

	_, err := uploads.ManualUpload(context.Background(), []byte("12345"), "a.pdf", "Kinh Tế Vi Mô", "Kinh Tế", "application/pdf", "u-1")
	require.NoError(t, err)
	_, err = uploads.ManualUpload(context.Background(), []byte("123"), "b.pdf", "Kinh Tế Vi Mô", "Kinh Tế", "application/pdf", "u-1")
	require.NoError(t, err)

	stats, err := kb.Stats()
	require.NoError(t, err)
	assert.EqualValues(t, 1, stats.TotalTopics)
	assert.EqualValues(t, 2, stats.TotalResources)
	assert.EqualValues(t, 8, stats.TotalSizeBytes)
}

func TestKBTopicDetail(t *testing.T) {
	kb, uploads, _ := newKBFixture(t)

	_, err := uploads.ManualUpload(context.Background(), []byte("x"), "bai.pdf", "Kinh Tế Vi Mô", "Kinh Tế", "application/pdf", "u-1")
	require.NoError(t, err)

	topic, err := kb.TopicDetail("kinh-te-vi-mo")
	require.NoError(t, err)
	assert.Len(t, topic.Resources, 1)

	_, err = kb.TopicDetail("khong-ton-tai")
	assert.EqualError(t, err, "không tìm thấy topic")
}

func TestKBPresignResource(t *testing.T) {
	kb, uploads, _ := newKBFixture(t)

	result, err := uploads.ManualUpload(context.Background(), []byte("x"), "bai.pdf", "Kinh Tế Vi Mô", "Kinh Tế", "application/pdf", "u-1")
	require.NoError(t, err)

	url, err := kb.PresignResource(context.Background(), result.Resource.ID, 0)
	require.NoError(t, err)
	assert.Contains(t, url, result.Resource.S3Key)
}
