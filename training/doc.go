// Package training 响应式训练题：每道题都是对rxlite运行时的一次组合。
//
// 题目分为四组：创建（Creating）、组合（Combining）、Single 与 Maybe。
// 需要时间的题目通过注入的 rxlite.Scheduler 执行，测试中使用虚拟时间。
package training
