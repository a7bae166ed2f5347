package issuer

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/rtaibah/poap-sub000/chain"
	"github.com/rtaibah/poap-sub000/models"
)

// TokenMigrationData is the task_data payload of a token-migration task. The
// intermediate hashes make the task resumable: each sweep picks up exactly
// where the previous one left off.
type TokenMigrationData struct {
	TokenID   uint64 `json:"tokenId"`
	EventID   uint64 `json:"eventId"`
	Recipient string `json:"recipient"`
	BurnTx    string `json:"burnTx,omitempty"`
	MintTx    string `json:"mintTx,omitempty"`
}

// TaskProcessor drives deferred cross-layer work. Token migration burns the
// token on the secondary layer, waits for the burn to land, then mints the
// replacement on the primary layer.
type TaskProcessor struct {
	store    Store
	executor operationExecutor
	receipts map[models.Layer]chain.ReceiptSource
}

func NewTaskProcessor(store Store, executor operationExecutor, receipts map[models.Layer]chain.ReceiptSource) *TaskProcessor {
	return &TaskProcessor{
		store:    store,
		executor: executor,
		receipts: receipts,
	}
}

// EnqueueTokenMigration records a new migration task for the sweep to pick up.
func (p *TaskProcessor) EnqueueTokenMigration(data TokenMigrationData) (*models.Task, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	task := &models.Task{
		ID:       uuid.New().String(),
		Name:     models.TaskNameTokenMigration,
		TaskData: string(payload),
		Status:   models.TaskStatusPending,
	}
	if err := p.store.InsertTask(task); err != nil {
		return nil, err
	}
	return task, nil
}

func (p *TaskProcessor) Run() {
	tasks, err := p.store.ListTasksByStatus([]models.TaskStatus{
		models.TaskStatusPending,
		models.TaskStatusInProcess,
	})
	if err != nil {
		log.Error("[TASKS] Failed to list tasks: ", err)
		return
	}

	for i := range tasks {
		task := tasks[i]
		switch task.Name {
		case models.TaskNameTokenMigration:
			if err := p.processTokenMigration(&task); err != nil {
				log.Warn("[TASKS] Migration task ", task.ID, ": ", err)
			}
		default:
			log.Warn("[TASKS] Unknown task name ", task.Name, ", skipping ", task.ID)
		}
	}
}

func (p *TaskProcessor) processTokenMigration(task *models.Task) error {
	var data TokenMigrationData
	if err := json.Unmarshal([]byte(task.TaskData), &data); err != nil {
		p.finishWithError(task, fmt.Sprintf("invalid task data: %v", err))
		return nil
	}

	if task.Status == models.TaskStatusPending {
		task.Status = models.TaskStatusInProcess
		if err := p.store.UpdateTask(task); err != nil {
			return err
		}
	}

	ctx := context.Background()

	if data.BurnTx == "" {
		tx, err := p.executor.Execute(ctx, models.LayerSecondary, models.BurnTokenOp{TokenID: data.TokenID}, Overrides{})
		if err != nil {
			// Not yet burned, the next sweep retries.
			return err
		}
		data.BurnTx = tx.Hash().Hex()
		return p.saveData(task, data)
	}

	burned, failed, err := p.receiptStatus(models.LayerSecondary, data.BurnTx)
	if err != nil || !burned {
		return err
	}
	if failed {
		p.finishWithError(task, fmt.Sprintf("burn %s reverted", data.BurnTx))
		return nil
	}

	if data.MintTx == "" {
		tx, err := p.executor.Execute(ctx, models.LayerPrimary, models.MintTokenOp{
			EventID:   data.EventID,
			Recipient: data.Recipient,
		}, Overrides{})
		if err != nil {
			return err
		}
		data.MintTx = tx.Hash().Hex()
		return p.saveData(task, data)
	}

	minted, failed, err := p.receiptStatus(models.LayerPrimary, data.MintTx)
	if err != nil || !minted {
		return err
	}
	if failed {
		p.finishWithError(task, fmt.Sprintf("mint %s reverted", data.MintTx))
		return nil
	}

	task.Status = models.TaskStatusFinish
	task.ReturnData = data.MintTx
	if err := p.store.UpdateTask(task); err != nil {
		return err
	}
	log.Info("[TASKS] Migration task ", task.ID, " finished, minted ", data.MintTx)
	return nil
}

// receiptStatus reports (mined, reverted) for a hash on a layer. A missing
// receipt leaves the task where it is for the next sweep.
func (p *TaskProcessor) receiptStatus(layer models.Layer, hash string) (bool, bool, error) {
	source, ok := p.receipts[layer]
	if !ok {
		return false, false, fmt.Errorf("no receipt source for layer %q", layer)
	}

	receipt, err := source.GetTransactionReceipt(hash)
	if err != nil {
		return false, false, err
	}
	if receipt == nil {
		return false, false, nil
	}
	return true, receipt.Status != types.ReceiptStatusSuccessful, nil
}

func (p *TaskProcessor) saveData(task *models.Task, data TokenMigrationData) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}
	task.TaskData = string(payload)
	return p.store.UpdateTask(task)
}

func (p *TaskProcessor) finishWithError(task *models.Task, reason string) {
	task.Status = models.TaskStatusFinishWithError
	task.ReturnData = reason
	if err := p.store.UpdateTask(task); err != nil {
		log.Error("[TASKS] Failed to update task ", task.ID, ": ", err)
	}
}
